package postgres_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bidcheck/internal/domain"
	"bidcheck/internal/repository/postgres"
)

func TestBillingEventRepo_Exists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewBillingEventRepo(db)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("evt_1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), "evt_1")

	require.NoError(t, err)
	assert.True(t, exists)
}

func TestBillingEventRepo_Record_SetsProcessedAt(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewBillingEventRepo(db)

	mock.ExpectExec(`INSERT INTO billing_events .* ON CONFLICT \(event_id\) DO NOTHING`).
		WithArgs("evt_1", domain.EventCheckoutCompleted, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	event := &domain.BillingEvent{EventID: "evt_1", Type: domain.EventCheckoutCompleted}
	err := repo.Record(context.Background(), event)

	require.NoError(t, err)
	assert.False(t, event.ProcessedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
