package service

import (
	"context"
	"time"

	"ingaggio/internal/domain"
	"ingaggio/internal/repository"
	"ingaggio/internal/schedule"
)

type RegistryService interface {
	CreateConsultant(ctx context.Context, c *domain.Consultant) error
	ListConsultants(ctx context.Context) ([]*domain.Consultant, error)
	CreateRecipient(ctx context.Context, r *domain.Recipient) error
	ListRecipients(ctx context.Context) ([]*domain.Recipient, error)
	CreateContract(ctx context.Context, c *domain.Contract) error
	ListContracts(ctx context.Context) ([]*domain.Contract, error)
	CreateService(ctx context.Context, s *domain.Service) error
	ListServices(ctx context.Context) ([]*domain.Service, error)
	// CreateContractedService enforces the hours invariants and the
	// (contract, service, consultant) uniqueness rule.
	CreateContractedService(ctx context.Context, cs *domain.ContractedService) error
	ListContractedServices(ctx context.Context, consultantID string) ([]*domain.ContractedService, error)
}

// TaskEdit describes one schedule mutation to record and apply.
type TaskEdit struct {
	Kind schedule.CommandKind

	// TaskID identifies the existing task for move/remove edits.
	TaskID string

	// ContractedServiceID and OnPremises describe the new task for
	// add edits.
	ContractedServiceID string
	OnPremises          bool

	// Start/End are the new task's span for add edits and the new
	// bounds for move edits.
	Start time.Time
	End   time.Time
}

type ScheduleService interface {
	// Generate allocates a full schedule for the consultant over the
	// inclusive day range and persists it with its tasks.
	Generate(ctx context.Context, consultantID string, from, to time.Time) (*repository.ScheduleRecord, error)
	Get(ctx context.Context, id string) (*repository.ScheduleRecord, error)
	ListByConsultant(ctx context.Context, consultantID string) ([]*repository.ScheduleRecord, error)
	// Validate re-runs the schedule invariant checks against the
	// persisted state and returns the violations found.
	Validate(ctx context.Context, id string) ([]schedule.Violation, error)
	// Apply records the edits as a changeset, applies them to the
	// schedule and persists both atomically. A validation failure
	// aborts the whole changeset.
	Apply(ctx context.Context, scheduleID string, edits []TaskEdit) (*repository.ChangesetRecord, error)
	// Undo reverts a previously applied changeset in reverse command
	// order.
	Undo(ctx context.Context, changesetID string) error
}
