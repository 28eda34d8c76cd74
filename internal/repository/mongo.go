package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/codeypas/portfolio-final/internal/model"
)

// Collection names match the ones the Mongoose models of the previous
// backend produced.  Ids are stored as ObjectIDs in _id the same way, so an
// existing database can be reused; the API exposes them as hex strings.
const (
	usersCollection    = "users"
	blogsCollection    = "blogs"
	studyCollection    = "studyresources"
	projectsCollection = "projects"
	contactsCollection = "contacts"
)

// NewMongoStores wires every store to one database and makes sure the
// unique indexes of the users collection exist.
func NewMongoStores(ctx context.Context, db *mongo.Database) (*Stores, error) {
	users := NewMongoUserStore(db.Collection(usersCollection))
	if err := users.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	return &Stores{
		Users:    users,
		Blogs:    newMongoCollection[model.Blog](db.Collection(blogsCollection)),
		Study:    newMongoCollection[model.StudyResource](db.Collection(studyCollection)),
		Projects: newMongoCollection[model.Project](db.Collection(projectsCollection)),
		Contacts: &mongoContactStore{newMongoCollection[model.ContactMessage](db.Collection(contactsCollection))},
		closer:   func(ctx context.Context) error { return db.Client().Disconnect(ctx) },
	}, nil
}

// MongoUserStore is the MongoDB credential store.
type MongoUserStore struct {
	coll *mongo.Collection
}

func NewMongoUserStore(coll *mongo.Collection) *MongoUserStore {
	return &MongoUserStore{coll: coll}
}

// EnsureIndexes creates the unique indexes on username and email.
func (s *MongoUserStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

func (s *MongoUserStore) Create(ctx context.Context, u *model.User) error {
	now := time.Now().UTC()
	oid := primitive.NewObjectID()
	doc := *u
	doc.ID = oid.Hex()
	doc.CreatedAt, doc.UpdatedAt = now, now
	if doc.Role == "" {
		doc.Role = model.RoleUser
	}
	raw, err := withObjectID(doc, oid)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if _, err := s.coll.InsertOne(ctx, raw); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	*u = doc
	return nil
}

func (s *MongoUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoUserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var u model.User
	if err := s.coll.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	role, err := model.ParseRole(string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", u.ID, err)
	}
	u.Role = role
	return &u, nil
}

// objectID parses an API id.  A malformed id cannot name a stored document,
// so it is reported as ErrNotFound.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

// withObjectID encodes v and sets its _id to oid.  Models carry the id as a
// hex string; on disk it is an ObjectID.
func withObjectID(v any, oid primitive.ObjectID) (bson.D, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.D
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	for i := range doc {
		if doc[i].Key == "_id" {
			doc[i].Value = oid
			return doc, nil
		}
	}
	return append(bson.D{{Key: "_id", Value: oid}}, doc...), nil
}

// mongoCollection is a generic ContentStore over one collection.
type mongoCollection[T any, PT interface {
	*T
	model.Document
}] struct {
	coll *mongo.Collection
}

func newMongoCollection[T any, PT interface {
	*T
	model.Document
}](coll *mongo.Collection) *mongoCollection[T, PT] {
	return &mongoCollection[T, PT]{coll: coll}
}

func (m *mongoCollection[T, PT]) Create(ctx context.Context, doc *T) error {
	meta := PT(doc).Base()
	now := time.Now().UTC()
	oid := primitive.NewObjectID()
	meta.ID = oid.Hex()
	meta.CreatedAt, meta.UpdatedAt = now, now
	raw, err := withObjectID(doc, oid)
	if err != nil {
		return fmt.Errorf("encode %s: %w", m.coll.Name(), err)
	}
	if _, err := m.coll.InsertOne(ctx, raw); err != nil {
		return fmt.Errorf("insert into %s: %w", m.coll.Name(), err)
	}
	return nil
}

func (m *mongoCollection[T, PT]) List(ctx context.Context) ([]T, error) {
	cur, err := m.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", m.coll.Name(), err)
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", m.coll.Name(), err)
	}
	return out, nil
}

func (m *mongoCollection[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var out T
	if err := m.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find in %s: %w", m.coll.Name(), err)
	}
	return &out, nil
}

// Update $sets every field of doc except the identity and creation time.
func (m *mongoCollection[T, PT]) Update(ctx context.Context, id string, doc *T) (*T, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode update: %w", err)
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("encode update: %w", err)
	}
	delete(fields, "_id")
	delete(fields, "createdAt")
	fields["updatedAt"] = time.Now().UTC()
	return m.findAndSet(ctx, id, fields)
}

func (m *mongoCollection[T, PT]) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := m.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete from %s: %w", m.coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *mongoCollection[T, PT]) findAndSet(ctx context.Context, id string, fields bson.M) (*T, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var out T
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = m.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": fields}, opts).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update in %s: %w", m.coll.Name(), err)
	}
	return &out, nil
}

type mongoContactStore struct {
	*mongoCollection[model.ContactMessage, *model.ContactMessage]
}

func (s *mongoContactStore) MarkRead(ctx context.Context, id string) (*model.ContactMessage, error) {
	return s.findAndSet(ctx, id, bson.M{"isRead": true, "updatedAt": time.Now().UTC()})
}
