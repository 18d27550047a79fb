package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"bidcheck/internal/domain"
	"bidcheck/internal/metrics"
	"bidcheck/internal/service"
	"bidcheck/mocks"
)

func runWorker(t *testing.T, worker *service.MailQueueWorker, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()
	time.Sleep(d)
	cancel()
	<-done
}

func newQueue() *mocks.MockMailQueueRepo {
	queue := new(mocks.MockMailQueueRepo)
	queue.On("ReclaimStale", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(0), nil).Maybe()
	return queue
}

func TestMailQueueWorker_SendsAndMarksSent(t *testing.T) {
	queue := newQueue()
	sender := new(mocks.MockEmailSender)
	id := uuid.New()
	msg := domain.MailMessage{ID: id, ToAddress: "ada@acme.test", Template: domain.MailTemplateWelcome, Attempts: 1}

	queue.On("ClaimPending", mock.Anything, mock.AnythingOfType("int")).Return([]domain.MailMessage{msg}, nil).Once()
	queue.On("ClaimPending", mock.Anything, mock.AnythingOfType("int")).Return([]domain.MailMessage{}, nil).Maybe()
	sender.On("Send", mock.Anything, mock.MatchedBy(func(m *domain.MailMessage) bool { return m.ID == id })).Return(nil)
	queue.On("MarkSent", mock.Anything, id).Return(nil)

	worker := service.NewMailQueueWorker(queue, sender, service.MailQueueConfig{
		PollInterval: 30 * time.Millisecond, MaxRetries: 3, Concurrency: 2,
	}, metrics.New())
	runWorker(t, worker, 150*time.Millisecond)

	sender.AssertExpectations(t)
	queue.AssertCalled(t, "MarkSent", mock.Anything, id)
}

func TestMailQueueWorker_FailureRetriesThenFails(t *testing.T) {
	tests := []struct {
		name     string
		attempts int
		final    bool
	}{
		{"retry", 1, false},
		{"final", 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := newQueue()
			sender := new(mocks.MockEmailSender)
			id := uuid.New()
			msg := domain.MailMessage{ID: id, Attempts: tt.attempts}

			queue.On("ClaimPending", mock.Anything, mock.AnythingOfType("int")).Return([]domain.MailMessage{msg}, nil).Once()
			queue.On("ClaimPending", mock.Anything, mock.AnythingOfType("int")).Return([]domain.MailMessage{}, nil).Maybe()
			sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("throttled"))
			queue.On("MarkFailed", mock.Anything, id, "throttled", tt.final).Return(nil)

			worker := service.NewMailQueueWorker(queue, sender, service.MailQueueConfig{
				PollInterval: 30 * time.Millisecond, MaxRetries: 3, Concurrency: 1,
			}, nil)
			runWorker(t, worker, 150*time.Millisecond)

			queue.AssertCalled(t, "MarkFailed", mock.Anything, id, "throttled", tt.final)
			queue.AssertNotCalled(t, "MarkSent", mock.Anything, mock.Anything)
		})
	}
}

func TestMailQueueWorker_RespectsConcurrencyCap(t *testing.T) {
	queue := newQueue()
	sender := new(mocks.MockEmailSender)
	cfg := service.MailQueueConfig{PollInterval: 30 * time.Millisecond, MaxRetries: 3, Concurrency: 2}

	queue.On("ClaimPending", mock.Anything, mock.AnythingOfType("int")).Return([]domain.MailMessage{}, nil).Maybe()

	worker := service.NewMailQueueWorker(queue, sender, cfg, nil)
	runWorker(t, worker, 120*time.Millisecond)

	for _, call := range queue.Calls {
		if call.Method == "ClaimPending" {
			assert.LessOrEqual(t, call.Arguments.Get(1).(int), cfg.Concurrency)
		}
	}
}

func TestMailQueueWorker_ClaimErrorKeepsPolling(t *testing.T) {
	queue := newQueue()
	sender := new(mocks.MockEmailSender)

	queue.On("ClaimPending", mock.Anything, mock.AnythingOfType("int")).Return(nil, errors.New("db down"))

	worker := service.NewMailQueueWorker(queue, sender, service.MailQueueConfig{
		PollInterval: 20 * time.Millisecond, MaxRetries: 3, Concurrency: 1,
	}, nil)
	runWorker(t, worker, 100*time.Millisecond)

	claims := 0
	for _, call := range queue.Calls {
		if call.Method == "ClaimPending" {
			claims++
		}
	}
	assert.GreaterOrEqual(t, claims, 2)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestMailQueueWorker_ReclaimsStaleClaims(t *testing.T) {
	queue := new(mocks.MockMailQueueRepo)
	sender := new(mocks.MockEmailSender)
	staleAfter := time.Hour

	queue.On("ReclaimStale", mock.Anything, mock.MatchedBy(func(before time.Time) bool {
		age := time.Since(before)
		return age >= staleAfter && age < staleAfter+time.Minute
	})).Return(int64(2), nil)
	queue.On("ClaimPending", mock.Anything, mock.AnythingOfType("int")).Return([]domain.MailMessage{}, nil).Maybe()

	worker := service.NewMailQueueWorker(queue, sender, service.MailQueueConfig{
		PollInterval: 20 * time.Millisecond, MaxRetries: 3, Concurrency: 1, StaleAfter: staleAfter,
	}, nil)
	runWorker(t, worker, 80*time.Millisecond)

	queue.AssertCalled(t, "ReclaimStale", mock.Anything, mock.AnythingOfType("time.Time"))
}

func TestMailQueueWorker_ReclaimErrorStillClaims(t *testing.T) {
	queue := new(mocks.MockMailQueueRepo)
	sender := new(mocks.MockEmailSender)

	queue.On("ReclaimStale", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))
	queue.On("ClaimPending", mock.Anything, mock.AnythingOfType("int")).Return([]domain.MailMessage{}, nil)

	worker := service.NewMailQueueWorker(queue, sender, service.MailQueueConfig{
		PollInterval: 20 * time.Millisecond, MaxRetries: 3, Concurrency: 1,
	}, nil)
	runWorker(t, worker, 80*time.Millisecond)

	queue.AssertCalled(t, "ClaimPending", mock.Anything, 1)
}
