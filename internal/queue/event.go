// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

import (
	"time"

	"github.com/codeypas/portfolio-final/internal/model"
)

// ContactQueueName is the durable queue contact notifications travel on.
const ContactQueueName = "contact.received"

// ContactReceivedEvent is published when a visitor leaves a message through
// the contact form.  It carries the whole message so consumers never need
// to query the store.
type ContactReceivedEvent struct {
	MessageID  string `json:"message_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Message    string `json:"message"`
	ReceivedAt string `json:"received_at"`
}

// NewContactReceivedEvent builds the event for a stored message.
func NewContactReceivedEvent(m *model.ContactMessage) ContactReceivedEvent {
	return ContactReceivedEvent{
		MessageID:  m.ID,
		Name:       m.Name,
		Email:      m.Email,
		Message:    m.Message,
		ReceivedAt: m.CreatedAt.UTC().Format(time.RFC3339),
	}
}
