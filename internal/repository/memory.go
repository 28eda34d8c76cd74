package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codeypas/portfolio-final/internal/model"
)

// NewMemoryStores returns stores that live in process memory.  They are
// used with STORE_DRIVER=memory for local development and by handler tests.
func NewMemoryStores() *Stores {
	return &Stores{
		Users:    NewMemoryUserStore(),
		Blogs:    newMemoryCollection[model.Blog](),
		Study:    newMemoryCollection[model.StudyResource](),
		Projects: newMemoryCollection[model.Project](),
		Contacts: &memoryContactStore{coll: newMemoryCollection[model.ContactMessage]()},
	}
}

// MemoryUserStore keeps users indexed by id, username and email.
type MemoryUserStore struct {
	mu         sync.RWMutex
	byID       map[string]*model.User
	byUsername map[string]string
	byEmail    map[string]string
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:       map[string]*model.User{},
		byUsername: map[string]string{},
		byEmail:    map[string]string{},
	}
}

func (s *MemoryUserStore) Create(_ context.Context, u *model.User) error {
	email := u.Email

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byUsername[u.Username]; taken {
		return ErrDuplicate
	}
	if _, taken := s.byEmail[email]; taken {
		return ErrDuplicate
	}
	now := time.Now().UTC()
	u.ID = uuid.NewString()
	if u.Role == "" {
		u.Role = model.RoleUser
	}
	u.CreatedAt, u.UpdatedAt = now, now

	clone := *u
	s.byID[u.ID] = &clone
	s.byUsername[u.Username] = u.ID
	s.byEmail[email] = u.ID
	return nil
}

func (s *MemoryUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *s.byID[id]
	return &clone, nil
}

func (s *MemoryUserStore) GetByID(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *u
	return &clone, nil
}

// SetRole changes a user's role.  There is no HTTP route for it; it exists
// for seeding administrators in development and tests.
func (s *MemoryUserStore) SetRole(id string, role model.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.Role = role
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// Delete removes a user.  Like SetRole it is only reachable from code.
func (s *MemoryUserStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byID[id]; ok {
		delete(s.byUsername, u.Username)
		delete(s.byEmail, u.Email)
		delete(s.byID, id)
	}
}

// memoryCollection is a generic ContentStore.  PT lets the collection reach
// the embedded model.Meta of a T.
type memoryCollection[T any, PT interface {
	*T
	model.Document
}] struct {
	mu   sync.RWMutex
	docs map[string]T
}

func newMemoryCollection[T any, PT interface {
	*T
	model.Document
}]() *memoryCollection[T, PT] {
	return &memoryCollection[T, PT]{docs: map[string]T{}}
}

func (m *memoryCollection[T, PT]) Create(_ context.Context, doc *T) error {
	meta := PT(doc).Base()
	now := time.Now().UTC()
	meta.ID = uuid.NewString()
	meta.CreatedAt, meta.UpdatedAt = now, now

	m.mu.Lock()
	m.docs[meta.ID] = *doc
	m.mu.Unlock()
	return nil
}

func (m *memoryCollection[T, PT]) List(_ context.Context) ([]T, error) {
	m.mu.RLock()
	out := make([]T, 0, len(m.docs))
	for _, d := range m.docs {
		out = append(out, d)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := PT(&out[i]).Base(), PT(&out[j]).Base()
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID > b.ID
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return out, nil
}

func (m *memoryCollection[T, PT]) Get(_ context.Context, id string) (*T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

func (m *memoryCollection[T, PT]) Update(_ context.Context, id string, doc *T) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	next := *doc
	meta := PT(&next).Base()
	meta.ID = id
	meta.CreatedAt = PT(&cur).Base().CreatedAt
	meta.UpdatedAt = time.Now().UTC()
	m.docs[id] = next
	return &next, nil
}

func (m *memoryCollection[T, PT]) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

// modify applies fn to the stored document under the write lock.
func (m *memoryCollection[T, PT]) modify(id string, fn func(PT)) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	fn(PT(&d))
	PT(&d).Base().UpdatedAt = time.Now().UTC()
	m.docs[id] = d
	return &d, nil
}

type memoryContactStore struct {
	coll *memoryCollection[model.ContactMessage, *model.ContactMessage]
}

func (s *memoryContactStore) Create(ctx context.Context, msg *model.ContactMessage) error {
	return s.coll.Create(ctx, msg)
}

func (s *memoryContactStore) List(ctx context.Context) ([]model.ContactMessage, error) {
	return s.coll.List(ctx)
}

func (s *memoryContactStore) MarkRead(_ context.Context, id string) (*model.ContactMessage, error) {
	return s.coll.modify(id, func(m *model.ContactMessage) { m.IsRead = true })
}

func (s *memoryContactStore) Delete(ctx context.Context, id string) error {
	return s.coll.Delete(ctx, id)
}
