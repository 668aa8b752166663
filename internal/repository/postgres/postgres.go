package postgres

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/djval79/complyflow-api/internal/repository"
)

// queryTimeout bounds every storage call. A timed-out call surfaces as a
// store error to the caller, never as a compliance verdict.
const queryTimeout = 5 * time.Second

type staffRepository struct {
	db *sqlx.DB
}

type trainingRepository struct {
	db *sqlx.DB
}

type shiftRepository struct {
	db *sqlx.DB
}

type templateRepository struct {
	db *sqlx.DB
}

type outboxRepository struct {
	db *sqlx.DB
}

func NewStaffRepository(db *sqlx.DB) repository.StaffRepository {
	return &staffRepository{db: db}
}

func NewTrainingRepository(db *sqlx.DB) repository.TrainingRepository {
	return &trainingRepository{db: db}
}

func NewShiftRepository(db *sqlx.DB) repository.ShiftRepository {
	return &shiftRepository{db: db}
}

func NewTemplateRepository(db *sqlx.DB) repository.TemplateRepository {
	return &templateRepository{db: db}
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{db: db}
}
