package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeypas/portfolio-final/internal/model"
)

func TestMemoryUserStore_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUserStore()

	u := &model.User{Username: "alice", Email: "Alice@Example.com", PasswordHash: "h"}
	require.NoError(t, s.Create(ctx, u))
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "Alice@Example.com", u.Email)
	assert.Equal(t, model.RoleUser, u.Role)

	got, err := s.GetByEmail(ctx, "Alice@Example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.GetByEmail(ctx, "alice@example.com")
	assert.ErrorIs(t, err, ErrNotFound, "emails match exactly")

	got, err = s.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = s.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUserStore_Duplicates(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUserStore()
	require.NoError(t, s.Create(ctx, &model.User{Username: "alice", Email: "a@x.io"}))

	assert.ErrorIs(t, s.Create(ctx, &model.User{Username: "alice", Email: "other@x.io"}), ErrDuplicate)
	assert.ErrorIs(t, s.Create(ctx, &model.User{Username: "bob", Email: "a@x.io"}), ErrDuplicate)
}

func TestMemoryUserStore_ConcurrentSignupOneWins(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUserStore()

	const n = 16
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		oks  int
		dups int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Create(ctx, &model.User{Username: "alice", Email: "a@x.io"})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				oks++
			} else if err == ErrDuplicate {
				dups++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, oks)
	assert.Equal(t, n-1, dups)
}

func TestMemoryUserStore_SetRoleAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUserStore()
	u := &model.User{Username: "root", Email: "root@x.io"}
	require.NoError(t, s.Create(ctx, u))

	require.NoError(t, s.SetRole(u.ID, model.RoleAdmin))
	got, err := s.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.Role.IsAdmin())

	s.Delete(u.ID)
	_, err = s.GetByEmail(ctx, "root@x.io")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.SetRole(u.ID, model.RoleUser), ErrNotFound)
}

func TestMemoryCollection_CRUD(t *testing.T) {
	ctx := context.Background()
	blogs := newMemoryCollection[model.Blog]()

	first := &model.Blog{Title: "first", Tags: []string{"go"}}
	require.NoError(t, blogs.Create(ctx, first))
	time.Sleep(2 * time.Millisecond)
	second := &model.Blog{Title: "second"}
	require.NoError(t, blogs.Create(ctx, second))

	list, err := blogs.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Title, "newest first")

	updated, err := blogs.Update(ctx, first.ID, &model.Blog{Title: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)
	assert.Equal(t, first.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "renamed", updated.Title)

	_, err = blogs.Update(ctx, "missing", &model.Blog{})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, blogs.Delete(ctx, first.ID))
	assert.ErrorIs(t, blogs.Delete(ctx, first.ID), ErrNotFound)
	_, err = blogs.Get(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryContactStore_MarkRead(t *testing.T) {
	ctx := context.Background()
	stores := NewMemoryStores()

	msg := &model.ContactMessage{Name: "Ann", Email: "ann@x.io", Message: "hi"}
	require.NoError(t, stores.Contacts.Create(ctx, msg))
	assert.False(t, msg.IsRead)

	got, err := stores.Contacts.MarkRead(ctx, msg.ID)
	require.NoError(t, err)
	assert.True(t, got.IsRead)

	_, err = stores.Contacts.MarkRead(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, stores.Close(ctx))
}
