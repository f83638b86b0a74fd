package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ingaggio/internal/domain"
	"ingaggio/internal/repository"
)

type registryService struct {
	consultants        repository.ConsultantRepo
	recipients         repository.RecipientRepo
	contracts          repository.ContractRepo
	services           repository.ServiceRepo
	contractedServices repository.ContractedServiceRepo
}

func NewRegistryService(
	consultants repository.ConsultantRepo,
	recipients repository.RecipientRepo,
	contracts repository.ContractRepo,
	services repository.ServiceRepo,
	contractedServices repository.ContractedServiceRepo,
) RegistryService {
	return &registryService{
		consultants:        consultants,
		recipients:         recipients,
		contracts:          contracts,
		services:           services,
		contractedServices: contractedServices,
	}
}

func (s *registryService) CreateConsultant(ctx context.Context, c *domain.Consultant) error {
	if err := c.Validate(); err != nil {
		return err
	}
	stampNew(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return s.consultants.Create(ctx, c)
}

func (s *registryService) ListConsultants(ctx context.Context) ([]*domain.Consultant, error) {
	return s.consultants.List(ctx)
}

func (s *registryService) CreateRecipient(ctx context.Context, r *domain.Recipient) error {
	if err := r.Validate(); err != nil {
		return err
	}
	stampNew(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	return s.recipients.Create(ctx, r)
}

func (s *registryService) ListRecipients(ctx context.Context) ([]*domain.Recipient, error) {
	return s.recipients.List(ctx)
}

func (s *registryService) CreateContract(ctx context.Context, c *domain.Contract) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if _, err := s.recipients.GetByID(ctx, c.RecipientID); err != nil {
		return fmt.Errorf("resolving contract recipient: %w", err)
	}
	stampNew(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return s.contracts.Create(ctx, c)
}

func (s *registryService) ListContracts(ctx context.Context) ([]*domain.Contract, error) {
	return s.contracts.List(ctx)
}

func (s *registryService) CreateService(ctx context.Context, svc *domain.Service) error {
	if err := svc.Validate(); err != nil {
		return err
	}
	stampNew(&svc.ID, &svc.CreatedAt, &svc.UpdatedAt)
	return s.services.Create(ctx, svc)
}

func (s *registryService) ListServices(ctx context.Context) ([]*domain.Service, error) {
	return s.services.List(ctx)
}

func (s *registryService) CreateContractedService(ctx context.Context, cs *domain.ContractedService) error {
	if err := cs.Validate(); err != nil {
		return err
	}
	if _, err := s.contracts.GetByID(ctx, cs.ContractID); err != nil {
		return fmt.Errorf("resolving contract: %w", err)
	}
	if _, err := s.services.GetByID(ctx, cs.ServiceID); err != nil {
		return fmt.Errorf("resolving service: %w", err)
	}
	if _, err := s.consultants.GetByID(ctx, cs.ConsultantID); err != nil {
		return fmt.Errorf("resolving consultant: %w", err)
	}
	existing, err := s.contractedServices.GetByTriple(ctx, cs.ContractID, cs.ServiceID, cs.ConsultantID)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("contracted service already exists for this contract, service and consultant (id %s)", existing.ID)
	}
	stampNew(&cs.ID, &cs.CreatedAt, &cs.UpdatedAt)
	return s.contractedServices.Create(ctx, cs)
}

func (s *registryService) ListContractedServices(ctx context.Context, consultantID string) ([]*domain.ContractedService, error) {
	return s.contractedServices.ListByConsultant(ctx, consultantID)
}

func stampNew(id *string, createdAt, updatedAt *time.Time) {
	if *id == "" {
		*id = uuid.New().String()
	}
	now := time.Now().UTC()
	*createdAt = now
	*updatedAt = now
}
