package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/codeypas/portfolio-final/internal/metrics"
	"github.com/codeypas/portfolio-final/internal/queue"
)

// ErrPublishBacklog is returned when too many publishes are in flight and
// the event is dropped.
var ErrPublishBacklog = errors.New("publish backlog full")

// maxInflight bounds concurrent background publishes.
const maxInflight = 16

// AsyncPublisher hands each event to a background goroutine so a slow or
// unreachable broker never delays the request that produced it.  Publishes
// run on a context detached from the request and bounded by timeout.
type AsyncPublisher struct {
	next    QueuePublisher
	timeout time.Duration
	slots   chan struct{}
	wg      sync.WaitGroup
}

func NewAsyncPublisher(next QueuePublisher, timeout time.Duration) *AsyncPublisher {
	return &AsyncPublisher{next: next, timeout: timeout, slots: make(chan struct{}, maxInflight)}
}

// PublishContactReceived returns as soon as the event is scheduled.
// Failures of the background publish are logged.
func (p *AsyncPublisher) PublishContactReceived(ctx context.Context, ev queue.ContactReceivedEvent) error {
	select {
	case p.slots <- struct{}{}:
	default:
		metrics.RecordContactEvent("publish", ErrPublishBacklog)
		return ErrPublishBacklog
	}

	detached := context.WithoutCancel(ctx)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() { <-p.slots }()

		ctx, cancel := context.WithTimeout(detached, p.timeout)
		defer cancel()
		if err := p.next.PublishContactReceived(ctx, ev); err != nil {
			slog.Warn("contact: notification not published", "id", ev.MessageID, "err", err)
		}
	}()
	return nil
}

// Close waits for in-flight publishes.  Call it after the HTTP server has
// stopped accepting requests.
func (p *AsyncPublisher) Close() {
	p.wg.Wait()
}
