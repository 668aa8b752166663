package compliance

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/djval79/complyflow-api/internal/model"
)

// MatrixProvider is the competency matrix builder consumed by the guard.
type MatrixProvider interface {
	GetCompetencyMatrix(ctx context.Context, orgID uuid.UUID) (*model.CompetencyMatrix, error)
}

// Service is the compliance guard gating shift assignment. It is a pure
// read over the competency matrix; safe for concurrent callers.
type Service struct {
	matrix MatrixProvider
}

func NewService(matrix MatrixProvider) *Service {
	return &Service{matrix: matrix}
}

// CheckCompliance reports whether a staff member may be scheduled. Only
// expired modules block; a missing (never-trained) module does not. That
// permissiveness is a recorded policy decision, not an accident: managers
// may roster staff onto roles their catalogue does not yet require.
func (s *Service) CheckCompliance(ctx context.Context, orgID, staffID uuid.UUID) (*model.ComplianceResult, error) {
	matrix, err := s.matrix.GetCompetencyMatrix(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to build competency matrix: %w", err)
	}

	row := matrix.Lookup(staffID)
	if row == nil {
		return &model.ComplianceResult{
			Compliant: false,
			Issues:    []string{fmt.Sprintf("staff member %s not found in competency matrix", staffID)},
		}, nil
	}

	// Iterate the module list rather than the status map so issue order is
	// stable across calls.
	var issues []string
	for _, mod := range matrix.Modules {
		if row.Statuses[mod.ID] != model.CompetencyStatusExpired {
			continue
		}
		if exp := row.Expiries[mod.ID]; exp != nil {
			issues = append(issues, fmt.Sprintf("%s expired on %s", mod.Name, exp.Format("2006-01-02")))
		} else {
			issues = append(issues, fmt.Sprintf("%s expired", mod.Name))
		}
	}

	return &model.ComplianceResult{
		Compliant: len(issues) == 0,
		Issues:    issues,
	}, nil
}
