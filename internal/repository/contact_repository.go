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

// ContactRepo encapsulates the queries on the `contact_messages` table.
type ContactRepo struct {
	db *sql.DB
}

func NewContactRepo(db *sql.DB) *ContactRepo { return &ContactRepo{db: db} }

const contactColumns = "id, name, email, message, is_read, created_at, updated_at"

func scanContact(s rowScanner) (*model.ContactMessage, error) {
	var m model.ContactMessage
	if err := s.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.IsRead, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *ContactRepo) Create(ctx context.Context, m *model.ContactMessage) error {
	now := time.Now().UTC()
	id := uuid.NewString()
	const q = "INSERT INTO contact_messages (" + contactColumns + ") VALUES (?,?,?,?,?,?,?)"
	if _, err := r.db.ExecContext(ctx, q, id, m.Name, m.Email, m.Message, false, now, now); err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}
	m.ID, m.IsRead, m.CreatedAt, m.UpdatedAt = id, false, now, now
	return nil
}

// List returns all messages, newest first.
func (r *ContactRepo) List(ctx context.Context) ([]model.ContactMessage, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+contactColumns+" FROM contact_messages ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	out := []model.ContactMessage{}
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact message: %w", err)
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// MarkRead flags a message as read and returns it.
func (r *ContactRepo) MarkRead(ctx context.Context, id string) (*model.ContactMessage, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE contact_messages SET is_read = TRUE, updated_at = ? WHERE id = ?", time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("mark contact message read: %w", err)
	}
	if err := affectedOne(res); err != nil {
		return nil, err
	}
	m, err := scanContact(r.db.QueryRowContext(ctx, "SELECT "+contactColumns+" FROM contact_messages WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get contact message: %w", err)
	}
	return m, nil
}

func (r *ContactRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM contact_messages WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete contact message: %w", err)
	}
	return affectedOne(res)
}
