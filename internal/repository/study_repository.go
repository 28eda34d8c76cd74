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

// StudyRepo encapsulates the queries on the `study_resources` table.
type StudyRepo struct {
	db *sql.DB
}

func NewStudyRepo(db *sql.DB) *StudyRepo { return &StudyRepo{db: db} }

const studyColumns = "id, title, category, description, format, file_url, icon, upload_date, created_at, updated_at"

func scanStudy(s rowScanner) (*model.StudyResource, error) {
	var sr model.StudyResource
	err := s.Scan(&sr.ID, &sr.Title, &sr.Category, &sr.Description, &sr.Format, &sr.FileURL, &sr.Icon, &sr.UploadDate, &sr.CreatedAt, &sr.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &sr, nil
}

func (r *StudyRepo) Create(ctx context.Context, sr *model.StudyResource) error {
	now := time.Now().UTC()
	id := uuid.NewString()
	const q = "INSERT INTO study_resources (" + studyColumns + ") VALUES (?,?,?,?,?,?,?,?,?,?)"
	if _, err := r.db.ExecContext(ctx, q, id, sr.Title, sr.Category, sr.Description, sr.Format, sr.FileURL, sr.Icon, sr.UploadDate, now, now); err != nil {
		return fmt.Errorf("insert study resource: %w", err)
	}
	sr.ID, sr.CreatedAt, sr.UpdatedAt = id, now, now
	return nil
}

func (r *StudyRepo) List(ctx context.Context) ([]model.StudyResource, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+studyColumns+" FROM study_resources ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list study resources: %w", err)
	}
	defer rows.Close()

	out := []model.StudyResource{}
	for rows.Next() {
		sr, err := scanStudy(rows)
		if err != nil {
			return nil, fmt.Errorf("scan study resource: %w", err)
		}
		out = append(out, *sr)
	}
	return out, rows.Err()
}

func (r *StudyRepo) Get(ctx context.Context, id string) (*model.StudyResource, error) {
	sr, err := scanStudy(r.db.QueryRowContext(ctx, "SELECT "+studyColumns+" FROM study_resources WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get study resource: %w", err)
	}
	return sr, nil
}

func (r *StudyRepo) Update(ctx context.Context, id string, sr *model.StudyResource) (*model.StudyResource, error) {
	const q = `UPDATE study_resources
	           SET title = ?, category = ?, description = ?, format = ?, file_url = ?, icon = ?, upload_date = ?, updated_at = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, sr.Title, sr.Category, sr.Description, sr.Format, sr.FileURL, sr.Icon, sr.UploadDate, time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("update study resource: %w", err)
	}
	if err := affectedOne(res); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *StudyRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM study_resources WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete study resource: %w", err)
	}
	return affectedOne(res)
}
