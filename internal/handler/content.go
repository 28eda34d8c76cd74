package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/codeypas/portfolio-final/internal/repository"
)

// Resource exposes list/get/create/update/delete for one content
// collection.  Per-collection behavior lives in prepare, which validates a
// bound document and fills defaults before it reaches the store.
type Resource[T any] struct {
	store   repository.ContentStore[T]
	timeout time.Duration

	singular string // "blog", used in failure messages
	plural   string // "blogs"
	notFound string // 404 message
	deleted  string // success message for DELETE

	prepare func(*T) error
}

// List answers GET /, newest first.
func (r *Resource[T]) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), r.timeout)
	defer cancel()

	docs, err := r.store.List(ctx)
	if err != nil {
		return storeError(err, "", "Failed to fetch "+r.plural)
	}
	for i := range docs {
		_ = r.prepare(&docs[i]) // normalize only; stored rows already passed validation
	}
	return c.JSON(http.StatusOK, docs)
}

// Get answers GET /:id.
func (r *Resource[T]) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), r.timeout)
	defer cancel()

	doc, err := r.store.Get(ctx, c.Param("id"))
	if err != nil {
		return storeError(err, r.notFound, "Failed to fetch "+r.singular)
	}
	_ = r.prepare(doc)
	return c.JSON(http.StatusOK, doc)
}

// Create answers POST / with 201 and the stored document.
func (r *Resource[T]) Create(c echo.Context) error {
	doc := new(T)
	if err := c.Bind(doc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, MsgInvalidBody)
	}
	if err := r.prepare(doc); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), r.timeout)
	defer cancel()

	if err := r.store.Create(ctx, doc); err != nil {
		return storeError(err, "", "Failed to create "+r.singular)
	}
	return c.JSON(http.StatusCreated, doc)
}

// Update answers PUT /:id.  Fields absent from the body keep their stored
// values; the merged document must still be valid.
func (r *Resource[T]) Update(c echo.Context) error {
	id := c.Param("id")
	ctx, cancel := context.WithTimeout(c.Request().Context(), r.timeout)
	defer cancel()

	doc, err := r.store.Get(ctx, id)
	if err != nil {
		return storeError(err, r.notFound, "Failed to update "+r.singular)
	}
	if err := c.Bind(doc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, MsgInvalidBody)
	}
	if err := r.prepare(doc); err != nil {
		return err
	}

	updated, err := r.store.Update(ctx, id, doc)
	if err != nil {
		return storeError(err, r.notFound, "Failed to update "+r.singular)
	}
	_ = r.prepare(updated)
	return c.JSON(http.StatusOK, updated)
}

// Delete answers DELETE /:id with a plain success string.
func (r *Resource[T]) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), r.timeout)
	defer cancel()

	if err := r.store.Delete(ctx, c.Param("id")); err != nil {
		return storeError(err, r.notFound, "Failed to delete "+r.singular)
	}
	return c.JSON(http.StatusOK, r.deleted)
}

// requireFields returns a 400 naming every empty field, in order.  fields
// alternates name, value.
func requireFields(fields ...string) error {
	var missing []string
	for i := 0; i+1 < len(fields); i += 2 {
		if strings.TrimSpace(fields[i+1]) == "" {
			missing = append(missing, fields[i])
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return echo.NewHTTPError(http.StatusBadRequest,
		fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", ")))
}

// nonNil keeps list fields serializing as [] rather than null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
