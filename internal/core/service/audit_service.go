package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/primetrade/taskhub/internal/core/domain"
	"github.com/primetrade/taskhub/internal/core/ports"
)

// AuditService persists activity events delivered by the dispatcher.
type AuditService struct {
	repo   ports.AuditRepository
	logger zerolog.Logger
}

func NewAuditService(repo ports.AuditRepository, logger zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, logger: logger}
}

// Process stores one activity event. Errors are returned to the dispatcher
// for logging and metrics; they never reach the request path.
func (s *AuditService) Process(ctx context.Context, event domain.ActivityEvent) error {
	if event.Action == "" {
		return fmt.Errorf("activity event without action")
	}

	if err := s.repo.Insert(ctx, &event); err != nil {
		return fmt.Errorf("insert activity event: %w", err)
	}

	s.logger.Debug().Str("action", event.Action).Str("actor_id", event.ActorID).Msg("activity recorded")
	return nil
}
