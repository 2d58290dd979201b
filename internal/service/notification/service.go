package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/buildcrew/sitework-backend-go/internal/domain/notification"
	"github.com/buildcrew/sitework-backend-go/internal/pkg/sse"
	"github.com/google/uuid"
)

// Config holds notification service configuration.
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

type service struct {
	repo   notification.Repository
	hub    *sse.Hub
	config Config

	queue  chan notification.CreateNotificationRequest
	wg     sync.WaitGroup
	stopCh chan struct{}
}

// NewNotificationService creates a notification sink with background workers.
// Enqueue never blocks the producing operation.
func NewNotificationService(repo notification.Repository, hub *sse.Hub, cfg Config) notification.Service {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		repo:   repo,
		hub:    hub,
		config: cfg,
		queue:  make(chan notification.CreateNotificationRequest, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("notification service started",
		"workers", cfg.WorkerCount, "batch_size", cfg.BatchSize, "flush_interval", cfg.FlushInterval)

	return s
}

// Enqueue implements notification.Service. Best-effort: when the queue is
// full the notification is dropped with a warning rather than blocking the
// producing request.
func (s *service) Enqueue(req notification.CreateNotificationRequest) {
	select {
	case s.queue <- req:
	default:
		slog.Warn("notification queue full, dropping",
			"recipient_id", req.RecipientID, "type", req.Type)
	}
}

// Stop drains the queue and waits for the workers to finish.
func (s *service) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]notification.CreateNotificationRequest, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		notifications := make([]*notification.Notification, len(batch))
		for i, req := range batch {
			notifications[i] = &notification.Notification{
				ID:          uuid.New().String(),
				RecipientID: req.RecipientID,
				Type:        req.Type,
				Title:       req.Title,
				Message:     req.Message,
				IsRead:      false,
				CreatedAt:   time.Now(),
			}
		}

		if err := s.repo.CreateBatch(ctx, notifications); err != nil {
			slog.Error("failed to persist notification batch",
				"worker", id, "count", len(batch), "error", err)
		} else {
			for _, n := range notifications {
				s.hub.Publish(n.RecipientID, sse.Event{
					WorkerID: n.RecipientID,
					Event:    string(n.Type),
					Data:     n,
				})
			}
		}

		batch = batch[:0]
	}

	for {
		select {
		case <-s.stopCh:
			// Drain whatever is still queued, then flush once.
			for {
				select {
				case req := <-s.queue:
					batch = append(batch, req)
					if len(batch) >= s.config.BatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		case req := <-s.queue:
			batch = append(batch, req)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
