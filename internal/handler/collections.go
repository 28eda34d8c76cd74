package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/codeypas/portfolio-final/internal/model"
	"github.com/codeypas/portfolio-final/internal/queue"
	"github.com/codeypas/portfolio-final/internal/repository"
	"github.com/codeypas/portfolio-final/internal/service"
)

// Contact form messages.
const (
	MsgContactRequired = "Name, email, and message are required"
	MsgContactNotFound = "Contact message not found"
)

// ContentHandler groups the handlers of the four content collections.
type ContentHandler struct {
	Blogs    *Resource[model.Blog]
	Study    *Resource[model.StudyResource]
	Projects *Resource[model.Project]
	Contacts *ContactHandler
}

func NewContentHandler(stores *repository.Stores, timeout time.Duration, pub service.QueuePublisher) *ContentHandler {
	return &ContentHandler{
		Blogs: &Resource[model.Blog]{
			store: stores.Blogs, timeout: timeout,
			singular: "blog", plural: "blogs",
			notFound: "Blog not found", deleted: "Blog deleted successfully",
			prepare: prepareBlog,
		},
		Study: &Resource[model.StudyResource]{
			store: stores.Study, timeout: timeout,
			singular: "study resource", plural: "study resources",
			notFound: "Study resource not found", deleted: "Study resource deleted successfully",
			prepare: prepareStudy,
		},
		Projects: &Resource[model.Project]{
			store: stores.Projects, timeout: timeout,
			singular: "project", plural: "projects",
			notFound: "Project not found", deleted: "Project deleted successfully",
			prepare: prepareProject,
		},
		Contacts: &ContactHandler{Store: stores.Contacts, Publisher: pub, Timeout: timeout},
	}
}

func prepareBlog(b *model.Blog) error {
	b.Tags = nonNil(b.Tags)
	return requireFields("title", b.Title, "summary", b.Summary, "content", b.Content, "category", b.Category)
}

func prepareStudy(s *model.StudyResource) error {
	if strings.TrimSpace(s.Icon) == "" {
		s.Icon = model.DefaultStudyIcon
	}
	return requireFields("title", s.Title, "category", s.Category, "description", s.Description,
		"format", s.Format, "fileUrl", s.FileURL)
}

func prepareProject(p *model.Project) error {
	p.TechStack = nonNil(p.TechStack)
	p.Features = nonNil(p.Features)
	p.Tags = nonNil(p.Tags)
	return requireFields("title", p.Title, "description", p.Description, "category", p.Category)
}

// ContactHandler serves the contact form and its admin inbox.
type ContactHandler struct {
	Store     repository.ContactStore
	Publisher service.QueuePublisher
	Timeout   time.Duration
}

type contactReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Create stores a message from the public form and announces it.  A failed
// announcement is logged; the visitor still gets 201.
func (h *ContactHandler) Create(c echo.Context) error {
	var req contactReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, MsgInvalidBody)
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || strings.TrimSpace(req.Message) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, MsgContactRequired)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeout)
	defer cancel()

	msg := &model.ContactMessage{Name: req.Name, Email: req.Email, Message: req.Message}
	if err := h.Store.Create(ctx, msg); err != nil {
		return storeError(err, "", "Failed to send contact message")
	}

	if h.Publisher != nil {
		if err := h.Publisher.PublishContactReceived(c.Request().Context(), queue.NewContactReceivedEvent(msg)); err != nil {
			slog.Warn("contact: notification not published", "id", msg.ID, "err", err)
		}
	}
	return c.JSON(http.StatusCreated, msg)
}

// List returns every message, newest first.
func (h *ContactHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeout)
	defer cancel()

	msgs, err := h.Store.List(ctx)
	if err != nil {
		return storeError(err, "", "Failed to fetch contact messages")
	}
	return c.JSON(http.StatusOK, msgs)
}

// MarkRead flags a message as read.
func (h *ContactHandler) MarkRead(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeout)
	defer cancel()

	msg, err := h.Store.MarkRead(ctx, c.Param("id"))
	if err != nil {
		return storeError(err, MsgContactNotFound, "Failed to mark message as read")
	}
	return c.JSON(http.StatusOK, msg)
}

func (h *ContactHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeout)
	defer cancel()

	if err := h.Store.Delete(ctx, c.Param("id")); err != nil {
		return storeError(err, MsgContactNotFound, "Failed to delete contact message")
	}
	return c.JSON(http.StatusOK, "Contact message deleted successfully")
}
