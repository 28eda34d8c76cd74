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

// ProjectRepo encapsulates the queries on the `projects` table.  The three
// list fields (tech_stack, features, tags) are JSON columns.
type ProjectRepo struct {
	db *sql.DB
}

func NewProjectRepo(db *sql.DB) *ProjectRepo { return &ProjectRepo{db: db} }

const projectColumns = "id, title, description, long_description, image, tech_stack, features, github_url, live_url, built_date, category, type, tags, created_at, updated_at"

func scanProject(s rowScanner) (*model.Project, error) {
	var (
		p                      model.Project
		stack, features, tags []byte
	)
	err := s.Scan(&p.ID, &p.Title, &p.Description, &p.LongDescription, &p.Image, &stack, &features,
		&p.GithubURL, &p.LiveURL, &p.BuiltDate, &p.Category, &p.Type, &tags, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if p.TechStack, err = decodeList(stack); err != nil {
		return nil, err
	}
	if p.Features, err = decodeList(features); err != nil {
		return nil, err
	}
	if p.Tags, err = decodeList(tags); err != nil {
		return nil, err
	}
	return &p, nil
}

// projectLists encodes the three JSON columns in column order.
func projectLists(p *model.Project) (stack, features, tags string, err error) {
	if stack, err = encodeList(p.TechStack); err != nil {
		return
	}
	if features, err = encodeList(p.Features); err != nil {
		return
	}
	tags, err = encodeList(p.Tags)
	return
}

func (r *ProjectRepo) Create(ctx context.Context, p *model.Project) error {
	stack, features, tags, err := projectLists(p)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	id := uuid.NewString()
	const q = "INSERT INTO projects (" + projectColumns + ") VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)"
	_, err = r.db.ExecContext(ctx, q, id, p.Title, p.Description, p.LongDescription, p.Image, stack, features,
		p.GithubURL, p.LiveURL, p.BuiltDate, p.Category, p.Type, tags, now, now)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	p.ID, p.CreatedAt, p.UpdatedAt = id, now, now
	return nil
}

func (r *ProjectRepo) List(ctx context.Context) ([]model.Project, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+projectColumns+" FROM projects ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := []model.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *ProjectRepo) Get(ctx context.Context, id string) (*model.Project, error) {
	p, err := scanProject(r.db.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM projects WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

func (r *ProjectRepo) Update(ctx context.Context, id string, p *model.Project) (*model.Project, error) {
	stack, features, tags, err := projectLists(p)
	if err != nil {
		return nil, err
	}
	const q = `UPDATE projects
	           SET title = ?, description = ?, long_description = ?, image = ?, tech_stack = ?, features = ?,
	               github_url = ?, live_url = ?, built_date = ?, category = ?, type = ?, tags = ?, updated_at = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, p.Title, p.Description, p.LongDescription, p.Image, stack, features,
		p.GithubURL, p.LiveURL, p.BuiltDate, p.Category, p.Type, tags, time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	if err := affectedOne(res); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return affectedOne(res)
}
