package ports

import (
	"context"

	"github.com/openlearn/education-platform/internal/core/domain"
)

// ActivityRecorder accepts audit events for asynchronous processing.
// Record must not block the caller; dropping an event under backpressure
// is acceptable.
type ActivityRecorder interface {
	Record(event domain.ActivityEvent)
}

// ActivityService processes a single audit event to completion.
type ActivityService interface {
	Process(ctx context.Context, event domain.ActivityEvent) error
}

// ActivityRepository persists audit events.
type ActivityRepository interface {
	Insert(ctx context.Context, event *domain.ActivityEvent) error
	ListByUsername(ctx context.Context, username string, limit int64) ([]*domain.ActivityEvent, error)
}
