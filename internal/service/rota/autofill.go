package rota

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/djval79/complyflow-api/internal/model"
)

// AutoFillResult summarises one planner pass.
type AutoFillResult struct {
	Filled         int         `json:"filled"`
	UnfilledShifts []uuid.UUID `json:"unfilled_shifts"`
}

const dayKeyFormat = "2006-01-02"

// AutoFill runs a single deterministic pass over the organization's empty
// shifts in [start, end]: for each, the first staff member (stable staff
// order) whose job title matches the required role, who has no expired
// module, and who is free that calendar day is assigned through the guarded
// path. First-eligible-wins, no load balancing; predictability of "why was
// this person picked" beats optimality here.
func (s *Service) AutoFill(ctx context.Context, filters *model.ShiftFilters, assignedBy uuid.UUID) (*AutoFillResult, error) {
	timer := prometheus.NewTimer(s.metrics.AutoFillDuration)
	defer timer.ObserveDuration()

	shifts, err := s.shiftRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load shifts: %w", err)
	}

	matrix, err := s.matrix.GetCompetencyMatrix(ctx, filters.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load competency matrix: %w", err)
	}

	// Days on which each staff member is already booked, from every loaded
	// shift including ones filled earlier in this pass.
	busy := make(map[uuid.UUID]map[string]bool)
	markBusy := func(userID uuid.UUID, day string) {
		if busy[userID] == nil {
			busy[userID] = make(map[string]bool)
		}
		busy[userID][day] = true
	}
	for _, shift := range shifts {
		day := shift.StartTime.Format(dayKeyFormat)
		for _, a := range shift.Assignments {
			markBusy(a.UserID, day)
		}
	}

	result := &AutoFillResult{UnfilledShifts: []uuid.UUID{}}
	for _, shift := range shifts {
		if len(shift.Assignments) > 0 {
			continue
		}
		day := shift.StartTime.Format(dayKeyFormat)

		candidate := firstEligible(matrix.Staff, shift, busy, day)
		if candidate == nil {
			result.UnfilledShifts = append(result.UnfilledShifts, shift.ID)
			s.metrics.AutoFillShiftsUnfilled.Inc()
			continue
		}

		// One attempt per shift, sequentially, awaiting each result. The
		// guard re-checks compliance; override is never set here.
		attempt := s.AssignStaffToShift(ctx, shift.ID, &model.AssignStaffRequest{
			UserID:         candidate.StaffID,
			AssignedBy:     assignedBy,
			OrganizationID: filters.OrganizationID,
		})
		if !attempt.Success() {
			s.logger.Warn("auto-fill assignment attempt failed",
				"shift_id", shift.ID.String(),
				"user_id", candidate.StaffID.String(),
				"error", attempt.ErrorMessage(),
			)
			result.UnfilledShifts = append(result.UnfilledShifts, shift.ID)
			s.metrics.AutoFillShiftsUnfilled.Inc()
			continue
		}

		markBusy(candidate.StaffID, day)
		result.Filled++
		s.metrics.AutoFillShiftsFilled.Inc()
	}

	return result, nil
}

func firstEligible(staff []*model.StaffCompetency, shift *model.Shift, busy map[uuid.UUID]map[string]bool, day string) *model.StaffCompetency {
	for _, member := range staff {
		if member.JobTitle != shift.RequiredRole {
			continue
		}
		if member.HasExpired() {
			continue
		}
		if busy[member.StaffID][day] {
			continue
		}
		return member
	}
	return nil
}
