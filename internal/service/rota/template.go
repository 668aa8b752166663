package rota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/djval79/complyflow-api/internal/model"
	"github.com/djval79/complyflow-api/internal/repository"
	apperrors "github.com/djval79/complyflow-api/pkg/errors"
)

func (s *Service) ListTemplates(ctx context.Context, orgID uuid.UUID) ([]*model.RotaTemplate, error) {
	templates, err := s.templateRepo.List(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

func (s *Service) CreateTemplate(ctx context.Context, req *model.CreateTemplateRequest) (*model.RotaTemplate, error) {
	tmpl := &model.RotaTemplate{
		OrganizationID: req.OrganizationID,
		Name:           req.Name,
		CreatedBy:      req.CreatedBy,
	}
	for _, sh := range req.Shifts {
		tmpl.Shifts = append(tmpl.Shifts, &model.TemplateShift{
			DayOffset:    sh.DayOffset,
			StartTime:    sh.StartTime,
			EndTime:      sh.EndTime,
			RequiredRole: sh.RequiredRole,
			ClientName:   sh.ClientName,
			Notes:        sh.Notes,
		})
	}

	if err := s.templateRepo.Create(ctx, tmpl); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	return tmpl, nil
}

func (s *Service) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	if err := s.templateRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("template", err)
		}
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}

// ApplyTemplate stamps the template's shift pattern onto the week starting
// at weekStart, offsetting each entry from that week's Monday. Overnight
// entries (end before start) land their end time on the next day.
func (s *Service) ApplyTemplate(ctx context.Context, orgID, templateID uuid.UUID, weekStart time.Time) ([]*model.Shift, error) {
	tmpl, err := s.templateRepo.Get(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("template", err)
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	if tmpl.OrganizationID != orgID {
		return nil, apperrors.NotFound("template", nil)
	}

	monday := startOfWeek(weekStart)

	created := make([]*model.Shift, 0, len(tmpl.Shifts))
	for _, ts := range tmpl.Shifts {
		start, err := atClockTime(monday.AddDate(0, 0, ts.DayOffset), ts.StartTime)
		if err != nil {
			return nil, apperrors.BadRequest(fmt.Sprintf("invalid template start time %q", ts.StartTime), err)
		}
		end, err := atClockTime(monday.AddDate(0, 0, ts.DayOffset), ts.EndTime)
		if err != nil {
			return nil, apperrors.BadRequest(fmt.Sprintf("invalid template end time %q", ts.EndTime), err)
		}
		if !end.After(start) {
			end = end.AddDate(0, 0, 1)
		}

		shift := &model.Shift{
			OrganizationID: orgID,
			StartTime:      start,
			EndTime:        end,
			RequiredRole:   ts.RequiredRole,
			ClientName:     ts.ClientName,
			Notes:          ts.Notes,
		}
		if err := s.shiftRepo.Create(ctx, shift); err != nil {
			return nil, fmt.Errorf("failed to create shift from template: %w", err)
		}
		shift.Assignments = []*model.ShiftAssignment{}
		s.events.Emit(ctx, model.EventShiftCreated, shift)
		created = append(created, shift)
	}

	return created, nil
}

// startOfWeek returns midnight on the Monday of the week containing t.
func startOfWeek(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// atClockTime combines a date with an HH:MM clock time.
func atClockTime(day time.Time, clock string) (time.Time, error) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, day.Location()), nil
}
