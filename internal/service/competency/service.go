package competency

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/djval79/complyflow-api/internal/model"
	"github.com/djval79/complyflow-api/internal/repository"
	"github.com/djval79/complyflow-api/pkg/logger"
	"github.com/djval79/complyflow-api/pkg/metrics"
)

// DegradedModeProvider supplies a substitute competency matrix when the
// backing store is unreachable. A nil provider makes the builder fail loudly
// instead; demo deployments plug in the sample dataset.
type DegradedModeProvider interface {
	Matrix(orgID uuid.UUID) *model.CompetencyMatrix
}

// Service builds the competency matrix: the derived per-staff, per-module
// view of training validity. It is a pure read, recomputed on every call.
type Service struct {
	staffRepo    repository.StaffRepository
	trainingRepo repository.TrainingRepository
	fallback     DegradedModeProvider
	logger       *logger.Logger
	metrics      *metrics.Metrics
	now          func() time.Time
}

func NewService(
	staffRepo repository.StaffRepository,
	trainingRepo repository.TrainingRepository,
	fallback DegradedModeProvider,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Service {
	return &Service{
		staffRepo:    staffRepo,
		trainingRepo: trainingRepo,
		fallback:     fallback,
		logger:       logger,
		metrics:      metrics,
		now:          time.Now,
	}
}

// GetCompetencyMatrix derives the matrix for an organization. When any data
// load fails and a degraded-mode provider is configured, the provider's
// dataset is returned instead so the rota UI stays usable; the fallback is
// logged and counted, never silent.
func (s *Service) GetCompetencyMatrix(ctx context.Context, orgID uuid.UUID) (*model.CompetencyMatrix, error) {
	timer := prometheus.NewTimer(s.metrics.MatrixBuildLatency)
	defer timer.ObserveDuration()

	matrix, err := s.buildMatrix(ctx, orgID)
	if err != nil {
		if s.fallback == nil {
			return nil, err
		}
		s.metrics.DegradedModeActivations.Inc()
		s.logger.Error(err, "competency matrix degraded to fallback dataset", "organization_id", orgID.String())
		return s.fallback.Matrix(orgID), nil
	}
	return matrix, nil
}

func (s *Service) buildMatrix(ctx context.Context, orgID uuid.UUID) (*model.CompetencyMatrix, error) {
	modules, err := s.trainingRepo.ListModules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load training modules: %w", err)
	}

	staff, err := s.staffRepo.ListStaff(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load staff: %w", err)
	}

	completions, err := s.trainingRepo.ListCompletions(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load training completions: %w", err)
	}

	now := s.now()
	latest := latestCompletions(completions)

	rows := make([]*model.StaffCompetency, 0, len(staff))
	for _, member := range staff {
		row := &model.StaffCompetency{
			StaffID:     member.ID,
			DisplayName: member.DisplayName,
			JobTitle:    member.JobTitle,
			Statuses:    make(map[uuid.UUID]model.CompetencyStatus, len(modules)),
			Expiries:    make(map[uuid.UUID]*time.Time, len(modules)),
		}
		for _, mod := range modules {
			c := latest[completionKey{member.ID, mod.ID}]
			row.Statuses[mod.ID] = statusAt(c, now)
			if c != nil && c.Passed {
				row.Expiries[mod.ID] = c.ExpiresAt
			}
		}
		rows = append(rows, row)
	}

	return &model.CompetencyMatrix{Modules: modules, Staff: rows}, nil
}

type completionKey struct {
	userID   uuid.UUID
	moduleID uuid.UUID
}

// latestCompletions picks, per (staff, module) pair, the completion with the
// greatest completed_at. The ledger is append-only so re-sits simply add
// newer rows.
func latestCompletions(completions []*model.TrainingCompletion) map[completionKey]*model.TrainingCompletion {
	latest := make(map[completionKey]*model.TrainingCompletion, len(completions))
	for _, c := range completions {
		key := completionKey{c.UserID, c.ModuleID}
		if prev, ok := latest[key]; !ok || c.CompletedAt.After(prev.CompletedAt) {
			latest[key] = c
		}
	}
	return latest
}

// statusAt derives a competency status from the authoritative completion at
// a point in time. A completion without an expiry never degrades.
func statusAt(c *model.TrainingCompletion, now time.Time) model.CompetencyStatus {
	if c == nil || !c.Passed {
		return model.CompetencyStatusMissing
	}
	if c.ExpiresAt == nil {
		return model.CompetencyStatusValid
	}

	days := int(math.Floor(c.ExpiresAt.Sub(now).Hours() / 24))
	switch {
	case days < 0:
		return model.CompetencyStatusExpired
	case days < model.ExpiringWindowDays:
		return model.CompetencyStatusExpiring
	default:
		return model.CompetencyStatusValid
	}
}
