//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v84/webhook"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	billing "bidcheck/internal/billing/stripe"
	"bidcheck/internal/config"
	"bidcheck/internal/domain"
	"bidcheck/internal/repository/postgres"
	"bidcheck/internal/service"
)

const migrationsPath = "file://../../../db/migrations"

// setupPostgres starts a disposable PostgreSQL container, applies the
// migrations and returns a connected pool. Tests are skipped when no
// container runtime is available.
func setupPostgres(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	provider, err := testcontainers.ProviderDocker.GetProvider()
	if err != nil {
		t.Skip("Docker not available, skipping integration tests")
	}
	defer provider.Close()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("bidcheck_test"),
		tcpostgres.WithUsername("bidcheck"),
		tcpostgres.WithPassword("bidcheck_test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Terminate(cleanupCtx); err != nil {
			t.Logf("terminating container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	m, err := migrate.New(migrationsPath, dsn)
	require.NoError(t, err)
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		require.NoError(t, err)
	}
	srcErr, dbErr := m.Close()
	require.NoError(t, srcErr)
	require.NoError(t, dbErr)

	db, err := sqlx.Connect("pgx", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(25)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestIntegration_ConcurrentIncrementsAreAtomic(t *testing.T) {
	db := setupPostgres(t)
	repo := postgres.NewEntitlementRepo(db)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := repo.IncrementUsage(ctx, "user-1")
		require.NoError(t, err)
	}
	before, err := repo.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)

	const n = 40
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.IncrementUsage(ctx, "user-1"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	after, err := repo.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, before.AuditCount+n, after.AuditCount)
}

func TestIntegration_ConcurrentFirstIncrementsCreateOneRecord(t *testing.T) {
	db := setupPostgres(t)
	repo := postgres.NewEntitlementRepo(db)
	ctx := context.Background()

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.IncrementUsage(ctx, "fresh-user")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var count int
	require.NoError(t, db.GetContext(ctx, &count, `SELECT COUNT(*) FROM entitlements WHERE user_id = $1`, "fresh-user"))
	assert.Equal(t, 1, count)

	ent, err := repo.GetOrCreate(ctx, "fresh-user")
	require.NoError(t, err)
	assert.Equal(t, n, ent.AuditCount)
}

func TestIntegration_SubscriptionTransitions(t *testing.T) {
	db := setupPostgres(t)
	repo := postgres.NewEntitlementRepo(db)
	ctx := context.Background()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	applied, err := repo.Activate(ctx, "user-1", "cus_1", t0)
	require.NoError(t, err)
	assert.True(t, applied)

	users, err := repo.Deactivate(ctx, "cus_1", t0.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, []string{"user-1"}, users)

	applied, err = repo.Activate(ctx, "user-1", "cus_1", t0.Add(2*time.Minute))
	require.NoError(t, err)
	assert.True(t, applied)

	ent, err := repo.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, ent.Subscribed)
	assert.Equal(t, "cus_1", ent.CustomerID())

	// A late delivery of the earlier cancellation must not undo the reactivation.
	users, err = repo.Deactivate(ctx, "cus_1", t0.Add(time.Minute))
	require.NoError(t, err)
	assert.Empty(t, users)

	ent, err = repo.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, ent.Subscribed)
}

func TestIntegration_TransitionsAreIdempotent(t *testing.T) {
	db := setupPostgres(t)
	repo := postgres.NewEntitlementRepo(db)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		_, err := repo.Activate(ctx, "user-1", "cus_1", at)
		require.NoError(t, err)
	}
	ent, err := repo.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, ent.Subscribed)

	for i := 0; i < 2; i++ {
		_, err := repo.Deactivate(ctx, "cus_1", at.Add(time.Minute))
		require.NoError(t, err)
	}
	ent, err = repo.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, ent.Subscribed)

	users, err := repo.Deactivate(ctx, "cus_unknown", at)
	require.NoError(t, err)
	assert.Empty(t, users)
}

const integrationWebhookSecret = "whsec_integration"

func signedDelivery(payload string) string {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    integrationWebhookSecret,
		Timestamp: time.Now(),
	}).Header
}

func TestIntegration_WebhookSignatureGatesState(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	repo := postgres.NewEntitlementRepo(db)
	entitlements := service.NewEntitlementService(repo, domain.DefaultFreeLimit, nil, nil, nil)
	svc := service.NewBillingService(
		billing.NewBilling(config.StripeConfig{SecretKey: "sk_test_123", WebhookSecret: integrationWebhookSecret}),
		entitlements,
		postgres.NewBillingEventRepo(db),
	)

	checkout := fmt.Sprintf(`{"id":"evt_checkout","object":"event","type":"checkout.session.completed","created":%d,
		"data":{"object":{"id":"cs_1","object":"checkout.session","customer":"cus_1","client_reference_id":"user-1"}}}`,
		time.Now().Add(-time.Hour).Unix())
	result, err := svc.HandleWebhook(ctx, []byte(checkout), signedDelivery(checkout))
	require.NoError(t, err)
	assert.Equal(t, service.WebhookApplied, result.Outcome)

	before, err := repo.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, before.Subscribed)

	cancel := fmt.Sprintf(`{"id":"evt_cancel","object":"event","type":"customer.subscription.deleted","created":%d,
		"data":{"object":{"id":"sub_1","object":"subscription","customer":"cus_1"}}}`, time.Now().Unix())
	_, err = svc.HandleWebhook(ctx, []byte(cancel), "t=1,v1=forged")
	require.ErrorIs(t, err, domain.ErrInvalidSignature)

	after, err := repo.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, before.Subscribed, after.Subscribed)
	assert.Equal(t, before.AuditCount, after.AuditCount)
	assert.Equal(t, before.CustomerID(), after.CustomerID())

	seen, err := postgres.NewBillingEventRepo(db).Exists(ctx, "evt_cancel")
	require.NoError(t, err)
	assert.False(t, seen)

	// Redelivering the processed checkout is acknowledged without reapplying.
	result, err = svc.HandleWebhook(ctx, []byte(checkout), signedDelivery(checkout))
	require.NoError(t, err)
	assert.Equal(t, service.WebhookDuplicate, result.Outcome)
}

func TestIntegration_MailQueueReclaimsStaleClaims(t *testing.T) {
	db := setupPostgres(t)
	queue := postgres.NewMailQueueRepo(db)
	ctx := context.Background()

	msg := &domain.MailMessage{ToAddress: "ada@acme.test", Template: domain.MailTemplateWelcome, Subject: "Welcome"}
	require.NoError(t, queue.Enqueue(ctx, msg))

	claimed, err := queue.ClaimPending(ctx, 5)
	require.NoError(t, err)
	require.Len(t, claimed, 1)

	again, err := queue.ClaimPending(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, again)

	n, err := queue.ReclaimStale(ctx, time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n, "fresh claims are left alone")

	n, err = queue.ReclaimStale(ctx, time.Now().UTC().Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	reclaimed, err := queue.ClaimPending(ctx, 5)
	require.NoError(t, err)
	require.Len(t, reclaimed, 1)
	assert.Equal(t, msg.ID, reclaimed[0].ID)
	assert.Equal(t, 2, reclaimed[0].Attempts)
}
