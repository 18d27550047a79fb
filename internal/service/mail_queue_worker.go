package service

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"bidcheck/internal/domain"
	"bidcheck/internal/metrics"
	"bidcheck/internal/port"
)

// MailQueueConfig holds settings for the mail queue worker.
type MailQueueConfig struct {
	PollInterval time.Duration
	MaxRetries   int
	Concurrency  int
	SendTimeout  time.Duration
	// StaleAfter is how long a message may stay claimed before it is
	// returned to pending for another worker.
	StaleAfter time.Duration
}

// MailQueueWorker polls the mail queue and delivers messages through the
// configured sender.
type MailQueueWorker struct {
	queue   port.MailQueueRepository
	sender  port.EmailSender
	cfg     MailQueueConfig
	metrics *metrics.Metrics
	wg      sync.WaitGroup
}

// NewMailQueueWorker creates a new MailQueueWorker. m may be nil.
func NewMailQueueWorker(queue port.MailQueueRepository, sender port.EmailSender, cfg MailQueueConfig, m *metrics.Metrics) *MailQueueWorker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Second
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 30 * time.Second
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = 10 * time.Minute
	}
	if cfg.StaleAfter <= cfg.SendTimeout {
		cfg.StaleAfter = 2 * cfg.SendTimeout
	}
	return &MailQueueWorker{queue: queue, sender: sender, cfg: cfg, metrics: m}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight sends have finished.
func (w *MailQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Infof("mailQueueWorker: started (poll=%s, concurrency=%d, maxRetries=%d)",
		w.cfg.PollInterval, w.cfg.Concurrency, w.cfg.MaxRetries)

	for {
		select {
		case <-ctx.Done():
			log.Info("mailQueueWorker: shutting down, waiting for in-flight sends...")
			w.wg.Wait()
			log.Info("mailQueueWorker: shutdown complete")
			return
		case <-ticker.C:
			w.poll(ctx, sem)
		}
	}
}

// poll claims as many messages as there are free slots and dispatches them.
func (w *MailQueueWorker) poll(ctx context.Context, sem chan struct{}) {
	w.reclaimStale(ctx)

	available := cap(sem) - len(sem)
	if available <= 0 {
		return
	}

	msgs, err := w.queue.ClaimPending(ctx, available)
	if err != nil {
		if ctx.Err() == nil {
			log.WithError(err).Error("mailQueueWorker: ClaimPending failed")
		}
		return
	}

	for i := range msgs {
		msg := msgs[i]

		sem <- struct{}{}
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			defer func() { <-sem }()

			// In-flight sends complete even during shutdown.
			sendCtx, cancel := context.WithTimeout(context.Background(), w.cfg.SendTimeout)
			defer cancel()
			w.deliver(sendCtx, &msg)
		}()
	}
}

// reclaimStale resets claims left behind by a worker that died mid-send.
func (w *MailQueueWorker) reclaimStale(ctx context.Context) {
	n, err := w.queue.ReclaimStale(ctx, time.Now().UTC().Add(-w.cfg.StaleAfter))
	if err != nil {
		if ctx.Err() == nil {
			log.WithError(err).Error("mailQueueWorker: ReclaimStale failed")
		}
		return
	}
	if n > 0 {
		log.WithField("count", n).Warn("mailQueueWorker: reclaimed stale claims")
	}
}

func (w *MailQueueWorker) deliver(ctx context.Context, msg *domain.MailMessage) {
	logger := log.WithFields(log.Fields{
		"mail_id":  msg.ID,
		"template": msg.Template,
		"attempt":  msg.Attempts,
	})

	if err := w.sender.Send(ctx, msg); err != nil {
		final := msg.Attempts >= w.cfg.MaxRetries
		status := domain.MailStatusPending
		if final {
			status = domain.MailStatusFailed
		}
		logger.WithError(err).Warnf("mailQueueWorker: send failed, status=%s", status)
		w.observe(status)
		if markErr := w.queue.MarkFailed(ctx, msg.ID, err.Error(), final); markErr != nil {
			logger.WithError(markErr).Error("mailQueueWorker: MarkFailed failed")
		}
		return
	}

	w.observe(domain.MailStatusSent)
	if err := w.queue.MarkSent(ctx, msg.ID); err != nil {
		logger.WithError(err).Error("mailQueueWorker: MarkSent failed")
		return
	}
	logger.Debug("mailQueueWorker: sent")
}

func (w *MailQueueWorker) observe(status domain.MailStatus) {
	if w.metrics != nil {
		w.metrics.MailDeliveriesTotal.WithLabelValues(string(status)).Inc()
	}
}
