package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
)

func testPricingConfig() *domain.PricingConfig {
	now := time.Now().UTC()
	return &domain.PricingConfig{
		ID:          uuid.New(),
		ServiceType: domain.TierVan,
		BasePrice:   1500,
		PerKg:       2,
		PerKm:       10,
		Active:      true,
		UpdatedBy:   uuid.New(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestPricingRepositoryFindActiveByServiceType(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPricingRepository(db)
	p := testPricingConfig()

	rows := sqlmock.NewRows(pricingColumns).
		AddRow(p.ID.String(), p.ServiceType, p.BasePrice, p.PerKg, p.PerKm, p.Active, p.UpdatedBy.String(), p.CreatedAt, p.UpdatedAt)
	mock.ExpectQuery("SELECT .+ FROM pricing_configs WHERE").
		WithArgs(true, p.ServiceType).
		WillReturnRows(rows)

	found, err := repo.FindActiveByServiceType(context.Background(), domain.TierVan)
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)
	assert.True(t, found.Active)
}

func TestPricingRepositoryFindActiveMiss(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPricingRepository(db)

	mock.ExpectQuery("SELECT .+ FROM pricing_configs WHERE").
		WillReturnRows(sqlmock.NewRows(pricingColumns))

	_, err := repo.FindActiveByServiceType(context.Background(), domain.TierTrailer)
	assert.ErrorIs(t, err, domain.ErrPricingNotFound)
}

func TestPricingRepositoryActivate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPricingRepository(db)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE pricing_configs SET active").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE pricing_configs SET active").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Activate(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPricingRepositoryActivateMissingRowRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPricingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE pricing_configs SET active").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE pricing_configs SET active").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Activate(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrPricingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
