package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"ingaggio/internal/domain"
	"ingaggio/internal/repository"
	"ingaggio/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistryService(database *sql.DB) RegistryService {
	return NewRegistryService(
		repository.NewSQLiteConsultantRepo(database),
		repository.NewSQLiteRecipientRepo(database),
		repository.NewSQLiteContractRepo(database),
		repository.NewSQLiteServiceRepo(database),
		repository.NewSQLiteContractedServiceRepo(database),
	)
}

func TestRegistryService_CreateConsultant(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := newRegistryService(database)
	ctx := context.Background()

	c := &domain.Consultant{Name: "Ada", Surname: "Rossi"}
	require.NoError(t, svc.CreateConsultant(ctx, c))
	assert.NotEmpty(t, c.ID)
	assert.False(t, c.CreatedAt.IsZero())

	all, err := svc.ListConsultants(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	// Missing surname fails validation before any write.
	assert.Error(t, svc.CreateConsultant(ctx, &domain.Consultant{Name: "Ada"}))
}

func TestRegistryService_CreateContract_ResolvesRecipient(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := newRegistryService(database)
	ctx := context.Background()

	start := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)
	err := svc.CreateContract(ctx, &domain.Contract{RecipientID: "missing", StartDate: start})
	assert.Error(t, err)

	r := &domain.Recipient{Name: "ACME SpA"}
	require.NoError(t, svc.CreateRecipient(ctx, r))
	require.NoError(t, svc.CreateContract(ctx, &domain.Contract{RecipientID: r.ID, StartDate: start}))
}

func TestRegistryService_CreateContractedService(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := newRegistryService(database)
	ctx := context.Background()

	consultant := &domain.Consultant{Name: "Ada", Surname: "Rossi"}
	require.NoError(t, svc.CreateConsultant(ctx, consultant))
	recipient := &domain.Recipient{Name: "ACME SpA"}
	require.NoError(t, svc.CreateRecipient(ctx, recipient))
	contract := &domain.Contract{RecipientID: recipient.ID,
		StartDate: time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, svc.CreateContract(ctx, contract))
	catalog := &domain.Service{Name: "training"}
	require.NoError(t, svc.CreateService(ctx, catalog))

	cs := &domain.ContractedService{
		ContractID:      contract.ID,
		ServiceID:       catalog.ID,
		ConsultantID:    consultant.ID,
		Hours:           10,
		HoursOnPremises: 4,
	}
	require.NoError(t, svc.CreateContractedService(ctx, cs))

	// One contracted service per (contract, service, consultant).
	dup := &domain.ContractedService{
		ContractID:   contract.ID,
		ServiceID:    catalog.ID,
		ConsultantID: consultant.ID,
		Hours:        5,
	}
	assert.Error(t, svc.CreateContractedService(ctx, dup))

	// Structural validation: on-premises hours capped by the total.
	broken := &domain.ContractedService{
		ContractID:      contract.ID,
		ServiceID:       catalog.ID,
		ConsultantID:    consultant.ID,
		Hours:           4,
		HoursOnPremises: 6,
	}
	assert.Error(t, svc.CreateContractedService(ctx, broken))

	got, err := svc.ListContractedServices(ctx, consultant.ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
