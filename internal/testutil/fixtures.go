package testutil

import (
	"time"

	"ingaggio/internal/domain"

	"github.com/google/uuid"
)

// Consultant options
type ConsultantOption func(*domain.Consultant)

func WithEmail(email string) ConsultantOption {
	return func(c *domain.Consultant) {
		c.Email = email
	}
}

func NewTestConsultant(name, surname string, opts ...ConsultantOption) *domain.Consultant {
	now := time.Now().UTC()
	c := &domain.Consultant{
		ID:        uuid.New().String(),
		Name:      name,
		Surname:   surname,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func NewTestRecipient(name string) *domain.Recipient {
	now := time.Now().UTC()
	return &domain.Recipient{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Contract options
type ContractOption func(*domain.Contract)

func WithContractEnd(d time.Time) ContractOption {
	return func(c *domain.Contract) {
		c.EndDate = &d
	}
}

func NewTestContract(recipientID string, start time.Time, opts ...ContractOption) *domain.Contract {
	now := time.Now().UTC()
	c := &domain.Contract{
		ID:          uuid.New().String(),
		RecipientID: recipientID,
		StartDate:   start,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func NewTestService(name string) *domain.Service {
	now := time.Now().UTC()
	return &domain.Service{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ContractedService options
type ContractedServiceOption func(*domain.ContractedService)

func WithOnPremisesHours(h int) ContractedServiceOption {
	return func(cs *domain.ContractedService) {
		cs.HoursOnPremises = h
	}
}

func WithServiceWindow(from, to time.Time) ContractedServiceOption {
	return func(cs *domain.ContractedService) {
		cs.FromDate = &from
		cs.ToDate = &to
	}
}

func NewTestContractedService(contractID, serviceID, consultantID string, hours int, opts ...ContractedServiceOption) *domain.ContractedService {
	now := time.Now().UTC()
	cs := &domain.ContractedService{
		ID:           uuid.New().String(),
		ContractID:   contractID,
		ServiceID:    serviceID,
		ConsultantID: consultantID,
		Hours:        hours,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(cs)
	}
	return cs
}

// Task options
type TaskOption func(*domain.Task)

func WithOnPremises(onPremises bool) TaskOption {
	return func(t *domain.Task) {
		t.OnPremises = onPremises
	}
}

// NewTestTask builds an hour-aligned task on the given day. End hour is
// exclusive.
func NewTestTask(scheduleID, contractedServiceID, consultantID string, day time.Time, startHour, endHour int, opts ...TaskOption) *domain.Task {
	d := day.Truncate(24 * time.Hour)
	t := &domain.Task{
		ID:                  uuid.New().String(),
		ScheduleID:          scheduleID,
		ContractedServiceID: contractedServiceID,
		ConsultantID:        consultantID,
		Start:               d.Add(time.Duration(startHour) * time.Hour),
		End:                 d.Add(time.Duration(endHour) * time.Hour),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}
