package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/djval79/complyflow-api/internal/model"
	"github.com/djval79/complyflow-api/internal/repository"
	"github.com/djval79/complyflow-api/pkg/logger"
)

// Service appends rota events to the outbox. The worker relays them to the
// broker; emission failures are logged and never fail the originating write.
type Service struct {
	repo   repository.OutboxRepository
	logger *logger.Logger
}

func NewService(repo repository.OutboxRepository, logger *logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Emit(ctx context.Context, eventType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error(err, "failed to marshal event payload", "event_type", eventType)
		return
	}

	evt := &model.OutboxEvent{
		EventType: eventType,
		Payload:   json.RawMessage(data),
	}
	if err := s.repo.Create(ctx, evt); err != nil {
		s.logger.Error(fmt.Errorf("failed to emit event: %w", err), "event emission failed", "event_type", eventType)
	}
}
