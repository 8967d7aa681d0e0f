package ports

import (
	"context"

	"github.com/primetrade/taskhub/internal/core/domain"
)

// ActivityRecorder accepts audit events for asynchronous processing. Record
// must not block the request path beyond queueing.
type ActivityRecorder interface {
	Record(event domain.ActivityEvent)
}

// AuditService processes queued activity events.
type AuditService interface {
	Process(ctx context.Context, event domain.ActivityEvent) error
}

// AuditRepository persists activity events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.ActivityEvent) error
}
