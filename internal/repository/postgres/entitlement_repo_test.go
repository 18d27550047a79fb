package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bidcheck/internal/repository/postgres"
)

var entitlementCols = []string{
	"user_id", "audit_count", "subscribed", "billing_customer_id",
	"billing_event_at", "created_at", "updated_at",
}

func TestEntitlementRepo_GetOrCreate_CreatesZeroRecord(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewEntitlementRepo(db)
	now := time.Now()

	mock.ExpectExec(`INSERT INTO entitlements \(user_id\) VALUES \(\$1\) ON CONFLICT \(user_id\) DO NOTHING`).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .* FROM entitlements WHERE user_id = \$1`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(entitlementCols).
			AddRow("user-1", 0, false, nil, nil, now, now))

	ent, err := repo.GetOrCreate(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, "user-1", ent.UserID)
	assert.Equal(t, 0, ent.AuditCount)
	assert.False(t, ent.Subscribed)
	assert.Nil(t, ent.BillingCustomerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntitlementRepo_GetOrCreate_InsertError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewEntitlementRepo(db)

	mock.ExpectExec(`INSERT INTO entitlements`).
		WithArgs("user-1").
		WillReturnError(errors.New("connection refused"))

	ent, err := repo.GetOrCreate(context.Background(), "user-1")

	assert.Nil(t, ent)
	assert.ErrorContains(t, err, "entitlementRepo.GetOrCreate")
}

func TestEntitlementRepo_IncrementUsage(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewEntitlementRepo(db)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO entitlements \(user_id, audit_count\) VALUES \(\$1, 1\)\s+ON CONFLICT \(user_id\) DO UPDATE\s+SET audit_count = entitlements.audit_count \+ 1`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(entitlementCols).
			AddRow("user-1", 3, false, nil, nil, now, now))

	ent, err := repo.IncrementUsage(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, 3, ent.AuditCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntitlementRepo_Activate_Applied(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewEntitlementRepo(db)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO entitlements \(user_id, subscribed, billing_customer_id, billing_event_at\)`).
		WithArgs("user-1", "cus_123", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	applied, err := repo.Activate(context.Background(), "user-1", "cus_123", at)

	require.NoError(t, err)
	assert.True(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntitlementRepo_Activate_StaleEventSkipped(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewEntitlementRepo(db)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(`WHERE entitlements.billing_event_at IS NULL\s+OR entitlements.billing_event_at <= EXCLUDED.billing_event_at`).
		WithArgs("user-1", "cus_123", at).
		WillReturnResult(sqlmock.NewResult(0, 0))

	applied, err := repo.Activate(context.Background(), "user-1", "cus_123", at)

	require.NoError(t, err)
	assert.False(t, applied)
}

func TestEntitlementRepo_Activate_RowsAffectedError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewEntitlementRepo(db)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO entitlements`).
		WithArgs("user-1", "cus_123", at).
		WillReturnResult(sqlmock.NewErrorResult(errors.New("driver lost result")))

	applied, err := repo.Activate(context.Background(), "user-1", "cus_123", at)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "entitlementRepo.Activate")
	assert.False(t, applied)
}

func TestEntitlementRepo_Deactivate_ReturnsMatchedUsers(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewEntitlementRepo(db)
	at := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`UPDATE entitlements\s+SET subscribed = FALSE`).
		WithArgs("cus_123", at).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("user-1").AddRow("user-2"))

	ids, err := repo.Deactivate(context.Background(), "cus_123", at)

	require.NoError(t, err)
	assert.Equal(t, []string{"user-1", "user-2"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntitlementRepo_Deactivate_NoMatch(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewEntitlementRepo(db)
	at := time.Now().UTC()

	mock.ExpectQuery(`UPDATE entitlements`).
		WithArgs("cus_unknown", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	ids, err := repo.Deactivate(context.Background(), "cus_unknown", at)

	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestEntitlementRepo_Deactivate_StoreError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewEntitlementRepo(db)

	mock.ExpectQuery(`UPDATE entitlements`).
		WillReturnError(errors.New("deadlock detected"))

	ids, err := repo.Deactivate(context.Background(), "cus_123", time.Now())

	assert.Nil(t, ids)
	assert.ErrorContains(t, err, "entitlementRepo.Deactivate")
}
