package repository

import (
	"context"

	"github.com/codeypas/portfolio-final/internal/model"
)

// UserStore is the credential store.  Implementations never return a
// record whose Role fails model.ParseRole.
type UserStore interface {
	// Create assigns ID and timestamps and inserts the user.  A taken
	// username or email yields ErrDuplicate.
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// ContentStore is the CRUD surface shared by blogs, study resources and
// projects.  List returns newest first.
type ContentStore[T any] interface {
	Create(ctx context.Context, doc *T) error
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	// Update replaces the mutable fields of the document with the given id
	// and returns the stored result.
	Update(ctx context.Context, id string, doc *T) (*T, error)
	Delete(ctx context.Context, id string) error
}

// ContactStore persists contact form messages.
type ContactStore interface {
	Create(ctx context.Context, msg *model.ContactMessage) error
	List(ctx context.Context) ([]model.ContactMessage, error)
	MarkRead(ctx context.Context, id string) (*model.ContactMessage, error)
	Delete(ctx context.Context, id string) error
}

// Stores bundles one implementation of every store, all backed by the same
// driver.
type Stores struct {
	Users    UserStore
	Blogs    ContentStore[model.Blog]
	Study    ContentStore[model.StudyResource]
	Projects ContentStore[model.Project]
	Contacts ContactStore

	closer func(context.Context) error
}

// Close releases the underlying connection, if any.
func (s *Stores) Close(ctx context.Context) error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer(ctx)
}
