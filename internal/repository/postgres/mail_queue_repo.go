package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"bidcheck/internal/domain"
	"bidcheck/internal/port"
)

const mailColumns = `id, to_address, to_name, template, subject, text_body, html_body,
	status, attempts, last_error, created_at, sent_at`

type mailQueueRepo struct {
	db *sqlx.DB
}

// NewMailQueueRepo creates a new PostgreSQL-backed MailQueueRepository.
func NewMailQueueRepo(db *sqlx.DB) port.MailQueueRepository {
	return &mailQueueRepo{db: db}
}

func (r *mailQueueRepo) Enqueue(ctx context.Context, msg *domain.MailMessage) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	msg.Status = domain.MailStatusPending
	msg.CreatedAt = time.Now().UTC()

	query := `INSERT INTO mail_queue (id, to_address, to_name, template, subject,
		text_body, html_body, status, attempts, last_error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, '', $9)`

	_, err := r.db.ExecContext(ctx, query,
		msg.ID, msg.ToAddress, msg.ToName, msg.Template, msg.Subject,
		msg.TextBody, msg.HTMLBody, msg.Status, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("mailQueueRepo.Enqueue: %w", err)
	}
	return nil
}

func (r *mailQueueRepo) ClaimPending(ctx context.Context, limit int) ([]domain.MailMessage, error) {
	var msgs []domain.MailMessage
	err := r.db.SelectContext(ctx, &msgs, `
		UPDATE mail_queue
		SET status = 'sending', attempts = attempts + 1, claimed_at = NOW()
		WHERE id IN (
			SELECT id FROM mail_queue
			WHERE status = 'pending'
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING `+mailColumns, limit)
	if err != nil {
		return nil, fmt.Errorf("mailQueueRepo.ClaimPending: %w", err)
	}
	return msgs, nil
}

func (r *mailQueueRepo) ReclaimStale(ctx context.Context, claimedBefore time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE mail_queue SET status = 'pending', claimed_at = NULL
		WHERE status = 'sending' AND claimed_at < $1`, claimedBefore)
	if err != nil {
		return 0, fmt.Errorf("mailQueueRepo.ReclaimStale: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mailQueueRepo.ReclaimStale: %w", err)
	}
	return rows, nil
}

func (r *mailQueueRepo) MarkSent(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE mail_queue SET status = 'sent', sent_at = NOW(), last_error = '' WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mailQueueRepo.MarkSent: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mailQueueRepo.MarkSent: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *mailQueueRepo) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, final bool) error {
	status := domain.MailStatusPending
	if final {
		status = domain.MailStatusFailed
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE mail_queue SET status = $1, last_error = $2 WHERE id = $3`, status, errMsg, id)
	if err != nil {
		return fmt.Errorf("mailQueueRepo.MarkFailed: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mailQueueRepo.MarkFailed: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
