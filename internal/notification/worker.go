package notification

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sindico-backend/internal/model"
)

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real Sender backed by the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool fans occurrence status-change jobs out to a fixed set of
// workers that push a notification to every subscription following the
// occurrence.
type WorkerPool struct {
	size    int
	jobs    chan string
	db      *gorm.DB
	webpush *webpush.Options
	sender  Sender
	logger  *zap.Logger
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options, logger *zap.Logger) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan string, size),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
		logger:  logger,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	wp.logger.Debug("notification worker started", zap.Int("worker", id))
	for {
		select {
		case occurrenceID := <-wp.jobs:
			wp.notifyOccurrence(ctx, occurrenceID)
		case <-ctx.Done():
			wp.logger.Debug("notification worker shutting down", zap.Int("worker", id))
			return
		}
	}
}

// Dispatch queues a status-change notification job for an occurrence.
func (wp *WorkerPool) Dispatch(occurrenceID string) {
	wp.jobs <- occurrenceID
}

// notifyOccurrence loads the subscriptions following the occurrence and
// pushes the current status to each of them.
func (wp *WorkerPool) notifyOccurrence(ctx context.Context, occurrenceID string) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN subscription_occurrence_mapping som ON som.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("som.occurrence_id = ?", occurrenceID).
		Find(&subscriptions).Error
	if err != nil {
		wp.logger.Error("failed to fetch subscriptions",
			zap.String("occurrence_id", occurrenceID), zap.Error(err))
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	var occ model.Occurrence
	err = wp.db.WithContext(ctx).
		Select("protocol", "title", "status").
		First(&occ, "id = ?", occurrenceID).Error
	if err != nil {
		wp.logger.Error("failed to fetch occurrence",
			zap.String("occurrence_id", occurrenceID), zap.Error(err))
		return
	}

	payload := []byte(fmt.Sprintf("Occurrence %s (%s) is now %s", occ.Protocol, occ.Title, occ.Status))
	wp.logger.Info("sending status notifications",
		zap.String("protocol", occ.Protocol),
		zap.Int("subscriptions", len(subscriptions)),
	)
	for _, sub := range subscriptions {
		wp.push(ctx, sub, payload)
	}
}

// push sends a single web push notification, pruning the subscription when
// the push service reports it gone.
func (wp *WorkerPool) push(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		wp.logger.Error("failed to send notification",
			zap.String("endpoint", sub.Endpoint), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		wp.logger.Info("deleting expired subscription", zap.String("endpoint", sub.Endpoint))
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			wp.logger.Error("failed to delete expired subscription",
				zap.String("endpoint", sub.Endpoint), zap.Error(err))
		}
	}
}
