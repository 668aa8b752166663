package rota

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/djval79/complyflow-api/internal/model"
	"github.com/djval79/complyflow-api/internal/repository"
	"github.com/djval79/complyflow-api/internal/service/event"
	apperrors "github.com/djval79/complyflow-api/pkg/errors"
	"github.com/djval79/complyflow-api/pkg/logger"
	"github.com/djval79/complyflow-api/pkg/metrics"
)

// Outcome enumerates the terminal states of one assignment attempt.
type Outcome int

const (
	OutcomeAssigned Outcome = iota
	OutcomeComplianceRejected
	OutcomeDuplicate
	OutcomeStoreFailure
)

// User-facing error strings for assignment outcomes. The UI matches on
// these verbatim.
const (
	ErrMsgComplianceFailed = "Compliance check failed"
	ErrMsgAlreadyAssigned  = "User already assigned to this shift"
)

// AssignResult is the outcome of a single assignment attempt. Failures are
// terminal per call; the caller decides whether to retry with an override
// or a different staff member.
type AssignResult struct {
	Outcome          Outcome
	ComplianceIssues []string
	Err              error
}

func (r *AssignResult) Success() bool {
	return r.Outcome == OutcomeAssigned
}

// ErrorMessage returns the user-facing error string for a failed attempt.
func (r *AssignResult) ErrorMessage() string {
	switch r.Outcome {
	case OutcomeAssigned:
		return ""
	case OutcomeComplianceRejected:
		return ErrMsgComplianceFailed
	case OutcomeDuplicate:
		return ErrMsgAlreadyAssigned
	default:
		if r.Err != nil {
			return r.Err.Error()
		}
		return "store error"
	}
}

// MatrixProvider exposes the competency matrix to the auto-fill planner.
type MatrixProvider interface {
	GetCompetencyMatrix(ctx context.Context, orgID uuid.UUID) (*model.CompetencyMatrix, error)
}

// ComplianceChecker is the guard consulted before every assignment write.
type ComplianceChecker interface {
	CheckCompliance(ctx context.Context, orgID, staffID uuid.UUID) (*model.ComplianceResult, error)
}

// Service orchestrates rota reads and guarded writes.
type Service struct {
	shiftRepo    repository.ShiftRepository
	templateRepo repository.TemplateRepository
	guard        ComplianceChecker
	matrix       MatrixProvider
	events       *event.Service
	logger       *logger.Logger
	metrics      *metrics.Metrics
}

func NewService(
	shiftRepo repository.ShiftRepository,
	templateRepo repository.TemplateRepository,
	guard ComplianceChecker,
	matrix MatrixProvider,
	events *event.Service,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Service {
	return &Service{
		shiftRepo:    shiftRepo,
		templateRepo: templateRepo,
		guard:        guard,
		matrix:       matrix,
		events:       events,
		logger:       logger,
		metrics:      metrics,
	}
}

// AssignStaffToShift runs the compliance guard, then writes the assignment
// or rejects. No non-compliant staff member may be scheduled onto a shift
// except via the explicit override flag. Never retries.
func (s *Service) AssignStaffToShift(ctx context.Context, shiftID uuid.UUID, req *model.AssignStaffRequest) *AssignResult {
	shift, err := s.shiftRepo.Get(ctx, shiftID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &AssignResult{Outcome: OutcomeStoreFailure, Err: apperrors.NotFound("shift", err)}
		}
		s.metrics.AssignmentStoreErrors.Inc()
		return &AssignResult{Outcome: OutcomeStoreFailure, Err: err}
	}
	// A shift outside the caller's organization reads as absent.
	if shift.OrganizationID != req.OrganizationID {
		return &AssignResult{Outcome: OutcomeStoreFailure, Err: apperrors.NotFound("shift", nil)}
	}

	verdict, err := s.guard.CheckCompliance(ctx, req.OrganizationID, req.UserID)
	if err != nil {
		s.metrics.AssignmentStoreErrors.Inc()
		return &AssignResult{Outcome: OutcomeStoreFailure, Err: err}
	}

	if !verdict.Compliant {
		if !req.OverrideCompliance {
			s.metrics.ComplianceRejections.Inc()
			return &AssignResult{
				Outcome:          OutcomeComplianceRejected,
				ComplianceIssues: verdict.Issues,
			}
		}
		s.metrics.ComplianceOverrides.Inc()
		s.logger.Warn("compliance override used for assignment",
			"shift_id", shiftID.String(),
			"user_id", req.UserID.String(),
			"assigned_by", req.AssignedBy.String(),
			"issues", verdict.Issues,
		)
	}

	assignment := &model.ShiftAssignment{
		ShiftID:    shiftID,
		UserID:     req.UserID,
		AssignedBy: req.AssignedBy,
	}
	if err := s.shiftRepo.InsertAssignment(ctx, assignment); err != nil {
		if errors.Is(err, repository.ErrDuplicateAssignment) {
			s.metrics.DuplicateConflicts.Inc()
			return &AssignResult{Outcome: OutcomeDuplicate, Err: err}
		}
		s.metrics.AssignmentStoreErrors.Inc()
		return &AssignResult{Outcome: OutcomeStoreFailure, Err: err}
	}

	s.metrics.AssignmentsCommitted.Inc()
	s.events.Emit(ctx, model.EventStaffAssigned, assignment)
	return &AssignResult{Outcome: OutcomeAssigned}
}

// GetShifts returns shifts starting in [start, end] with nested assignments,
// ordered by start time.
func (s *Service) GetShifts(ctx context.Context, filters *model.ShiftFilters) ([]*model.Shift, error) {
	shifts, err := s.shiftRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get shifts: %w", err)
	}
	return shifts, nil
}

func (s *Service) CreateShift(ctx context.Context, req *model.CreateShiftRequest) (*model.Shift, error) {
	start, end := req.StartTime, req.EndTime
	// Overnight shifts arrive with end before start; roll the end forward.
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}

	shift := &model.Shift{
		OrganizationID: req.OrganizationID,
		StartTime:      start,
		EndTime:        end,
		RequiredRole:   req.RequiredRole,
		ClientName:     req.ClientName,
		Notes:          req.Notes,
	}
	if err := s.shiftRepo.Create(ctx, shift); err != nil {
		return nil, fmt.Errorf("failed to create shift: %w", err)
	}
	shift.Assignments = []*model.ShiftAssignment{}

	s.events.Emit(ctx, model.EventShiftCreated, shift)
	return shift, nil
}

func (s *Service) DeleteShift(ctx context.Context, id uuid.UUID) error {
	if err := s.shiftRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("shift", err)
		}
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	s.events.Emit(ctx, model.EventShiftDeleted, map[string]string{"shift_id": id.String()})
	return nil
}

func (s *Service) RemoveAssignment(ctx context.Context, id uuid.UUID) error {
	if err := s.shiftRepo.RemoveAssignment(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("assignment", err)
		}
		return fmt.Errorf("failed to remove assignment: %w", err)
	}
	s.events.Emit(ctx, model.EventAssignmentRemoved, map[string]string{"assignment_id": id.String()})
	return nil
}

// UpdateAssignmentStatus moves an assignment through its lifecycle
// (assigned -> confirmed/declined, confirmed -> completed/no_show).
func (s *Service) UpdateAssignmentStatus(ctx context.Context, id uuid.UUID, status model.AssignmentStatus) error {
	current, err := s.shiftRepo.GetAssignment(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("assignment", err)
		}
		return fmt.Errorf("failed to get assignment: %w", err)
	}

	if !current.Status.CanTransitionTo(status) {
		return apperrors.BadRequest(
			fmt.Sprintf("cannot change assignment status from %s to %s", current.Status, status), nil)
	}

	if err := s.shiftRepo.UpdateAssignmentStatus(ctx, id, status); err != nil {
		return fmt.Errorf("failed to update assignment status: %w", err)
	}
	return nil
}
