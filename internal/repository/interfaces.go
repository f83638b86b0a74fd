package repository

import (
	"context"
	"time"

	"ingaggio/internal/domain"
)

// ScheduleRecord is the persisted form of a schedule: its identity and
// bounds plus the task rows. Slot regeneration from the bounds is the
// schedule package's job, not the repository's.
type ScheduleRecord struct {
	ID           string
	ConsultantID string
	From         time.Time
	To           time.Time
	CreatedAt    time.Time
	Tasks        []*domain.Task
}

// CommandRecord is the persisted form of one changeset command. It
// carries enough state to invert its own effect: a remove command's
// prev bounds plus service/flag let an undo re-create the task row.
type CommandRecord struct {
	ChangesetID         string
	Seq                 int
	Kind                string
	TaskID              string
	ContractedServiceID string
	OnPremises          bool
	PrevStart           *time.Time
	PrevEnd             *time.Time
	NewStart            *time.Time
	NewEnd              *time.Time
}

// ChangesetRecord is the persisted audit record of a changeset.
type ChangesetRecord struct {
	ID         string
	ScheduleID string
	CreatedAt  time.Time
	Commands   []CommandRecord
}

type ConsultantRepo interface {
	Create(ctx context.Context, c *domain.Consultant) error
	GetByID(ctx context.Context, id string) (*domain.Consultant, error)
	List(ctx context.Context) ([]*domain.Consultant, error)
	Update(ctx context.Context, c *domain.Consultant) error
	Delete(ctx context.Context, id string) error
}

type RecipientRepo interface {
	Create(ctx context.Context, r *domain.Recipient) error
	GetByID(ctx context.Context, id string) (*domain.Recipient, error)
	List(ctx context.Context) ([]*domain.Recipient, error)
	Delete(ctx context.Context, id string) error
}

type ContractRepo interface {
	Create(ctx context.Context, c *domain.Contract) error
	GetByID(ctx context.Context, id string) (*domain.Contract, error)
	ListByRecipient(ctx context.Context, recipientID string) ([]*domain.Contract, error)
	List(ctx context.Context) ([]*domain.Contract, error)
	Delete(ctx context.Context, id string) error
}

type ServiceRepo interface {
	Create(ctx context.Context, s *domain.Service) error
	GetByID(ctx context.Context, id string) (*domain.Service, error)
	List(ctx context.Context) ([]*domain.Service, error)
	Delete(ctx context.Context, id string) error
}

type ContractedServiceRepo interface {
	Create(ctx context.Context, cs *domain.ContractedService) error
	GetByID(ctx context.Context, id string) (*domain.ContractedService, error)
	// GetByTriple looks up the unique contracted service for a
	// (contract, service, consultant) triple, or returns nil.
	GetByTriple(ctx context.Context, contractID, serviceID, consultantID string) (*domain.ContractedService, error)
	ListByConsultant(ctx context.Context, consultantID string) ([]*domain.ContractedService, error)
	Update(ctx context.Context, cs *domain.ContractedService) error
	Delete(ctx context.Context, id string) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListBySchedule(ctx context.Context, scheduleID string) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
}

type ScheduleRepo interface {
	Create(ctx context.Context, rec *ScheduleRecord) error
	// GetByID loads the schedule row together with its task rows.
	GetByID(ctx context.Context, id string) (*ScheduleRecord, error)
	ListByConsultant(ctx context.Context, consultantID string) ([]*ScheduleRecord, error)
	Delete(ctx context.Context, id string) error
}

type ChangesetRepo interface {
	Create(ctx context.Context, rec *ChangesetRecord) error
	GetByID(ctx context.Context, id string) (*ChangesetRecord, error)
	ListBySchedule(ctx context.Context, scheduleID string) ([]*ChangesetRecord, error)
}
