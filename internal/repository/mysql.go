package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// NewMySQLStores wires every store to one connection pool.  The schema is
// created by database.Migrate before this is called.
func NewMySQLStores(db *sql.DB) *Stores {
	return &Stores{
		Users:    NewUserRepo(db),
		Blogs:    NewBlogRepo(db),
		Study:    NewStudyRepo(db),
		Projects: NewProjectRepo(db),
		Contacts: NewContactRepo(db),
		closer:   func(context.Context) error { return db.Close() },
	}
}

// List columns ([]string) are stored as JSON arrays.

func encodeList(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(b), nil
}

func decodeList(raw []byte) ([]string, error) {
	out := []string{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return out, nil
}

// affectedOne maps a zero-row UPDATE/DELETE to ErrNotFound.  The DSN sets
// clientFoundRows so an UPDATE that changes nothing still counts its match.
func affectedOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
