package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Notification is a single outbound message.
type Notification struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// Sender delivers a notification over one channel.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// NotificationWorker drains a bounded queue with a small goroutine pool so
// lifecycle calls never block on delivery. A full queue drops the message.
type NotificationWorker struct {
	queue   chan Notification
	senders []Sender
	logger  *zap.Logger
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	once    sync.Once
}

// NewNotificationWorker builds a worker with the given queue capacity.
func NewNotificationWorker(capacity int, logger *zap.Logger, senders ...Sender) *NotificationWorker {
	if capacity <= 0 {
		capacity = 256
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{
		queue:   make(chan Notification, capacity),
		senders: senders,
		logger:  logger,
	}
}

// Start launches the worker pool.
func (w *NotificationWorker) Start(workers int) {
	if workers <= 0 {
		workers = 2
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	for i := 0; i < workers; i++ {
		w.wg.Add(1)
		go w.run(ctx)
	}
}

// Enqueue queues a notification without blocking.
func (w *NotificationWorker) Enqueue(n Notification) {
	select {
	case w.queue <- n:
	default:
		w.logger.Warn("notification queue full, dropping message",
			zap.String("recipient", n.Recipient),
			zap.String("subject", n.Subject))
	}
}

// Shutdown stops accepting work, drains the queue and waits for in-flight
// deliveries.
func (w *NotificationWorker) Shutdown() {
	w.once.Do(func() {
		close(w.queue)
		w.wg.Wait()
		if w.cancel != nil {
			w.cancel()
		}
	})
}

func (w *NotificationWorker) run(ctx context.Context) {
	defer w.wg.Done()
	for n := range w.queue {
		w.deliver(ctx, n)
	}
}

func (w *NotificationWorker) deliver(ctx context.Context, n Notification) {
	for _, sender := range w.senders {
		sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := sender.Send(sendCtx, n); err != nil {
			w.logger.Warn("notification delivery failed",
				zap.String("recipient", n.Recipient),
				zap.Error(err))
		}
		cancel()
	}
}

// EmailSender is a log-only stand-in for an SMTP integration.
type EmailSender struct {
	From   string
	Logger *zap.Logger
}

// Send logs the outbound message.
func (s *EmailSender) Send(_ context.Context, n Notification) error {
	s.Logger.Info("email notification",
		zap.String("from", s.From),
		zap.String("to", n.Recipient),
		zap.String("subject", n.Subject))
	return nil
}

// WebhookSender posts notifications as JSON to a configured endpoint.
type WebhookSender struct {
	URL    string
	Client *http.Client
}

// Send posts the notification. A missing URL disables the sender.
func (s *WebhookSender) Send(ctx context.Context, n Notification) error {
	if s.URL == "" {
		return nil
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
