package ports

import (
	"context"

	"github.com/retailops/session-gateway/internal/core/domain"
)

// AuditRepository persists session audit events.
type AuditRepository interface {
	Record(ctx context.Context, event domain.AuditEvent) error
}

// AuditSink accepts audit events for asynchronous recording. Enqueue never
// blocks the session flow; a full sink drops the event.
type AuditSink interface {
	Enqueue(event domain.AuditEvent)
}
