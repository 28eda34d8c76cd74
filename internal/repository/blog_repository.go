package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/codeypas/portfolio-final/internal/model"
)

// BlogRepo encapsulates the queries on the `blogs` table.
type BlogRepo struct {
	db *sql.DB
}

func NewBlogRepo(db *sql.DB) *BlogRepo { return &BlogRepo{db: db} }

const blogColumns = "id, title, summary, content, category, tags, thumbnail, created_at, updated_at"

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlog(s rowScanner) (*model.Blog, error) {
	var (
		b    model.Blog
		tags []byte
	)
	if err := s.Scan(&b.ID, &b.Title, &b.Summary, &b.Content, &b.Category, &tags, &b.Thumbnail, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if b.Tags, err = decodeList(tags); err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a blog and fills in its id and timestamps.
func (r *BlogRepo) Create(ctx context.Context, b *model.Blog) error {
	tags, err := encodeList(b.Tags)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	id := uuid.NewString()
	const q = "INSERT INTO blogs (" + blogColumns + ") VALUES (?,?,?,?,?,?,?,?,?)"
	if _, err := r.db.ExecContext(ctx, q, id, b.Title, b.Summary, b.Content, b.Category, tags, b.Thumbnail, now, now); err != nil {
		return fmt.Errorf("insert blog: %w", err)
	}
	b.ID, b.CreatedAt, b.UpdatedAt = id, now, now
	return nil
}

// List returns all blogs, newest first.
func (r *BlogRepo) List(ctx context.Context) ([]model.Blog, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+blogColumns+" FROM blogs ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}
	defer rows.Close()

	out := []model.Blog{}
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blog: %w", err)
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// Get fetches one blog by id.
func (r *BlogRepo) Get(ctx context.Context, id string) (*model.Blog, error) {
	b, err := scanBlog(r.db.QueryRowContext(ctx, "SELECT "+blogColumns+" FROM blogs WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get blog: %w", err)
	}
	return b, nil
}

// Update overwrites the editable fields and returns the stored row.
func (r *BlogRepo) Update(ctx context.Context, id string, b *model.Blog) (*model.Blog, error) {
	tags, err := encodeList(b.Tags)
	if err != nil {
		return nil, err
	}
	const q = `UPDATE blogs
	           SET title = ?, summary = ?, content = ?, category = ?, tags = ?, thumbnail = ?, updated_at = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, b.Title, b.Summary, b.Content, b.Category, tags, b.Thumbnail, time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("update blog: %w", err)
	}
	if err := affectedOne(res); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Delete removes a blog by id.
func (r *BlogRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM blogs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	return affectedOne(res)
}
