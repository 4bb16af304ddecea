package worker

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []Notification
}

func (s *recordingSender) Send(_ context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func TestWorkerDeliversQueuedNotifications(t *testing.T) {
	sender := &recordingSender{}
	w := NewNotificationWorker(8, zap.NewNop(), sender)
	w.Start(2)

	for i := 0; i < 5; i++ {
		w.Enqueue(Notification{Recipient: "a@example.com", Subject: "s"})
	}
	w.Shutdown()

	if got := sender.count(); got != 5 {
		t.Fatalf("delivered = %d, want 5", got)
	}
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	// Worker never started, so the queue cannot drain.
	w := NewNotificationWorker(1, zap.NewNop())

	w.Enqueue(Notification{Subject: "first"})
	w.Enqueue(Notification{Subject: "overflow"}) // must not block

	if len(w.queue) != 1 {
		t.Fatalf("queue length = %d, want 1", len(w.queue))
	}
}

func TestWebhookSenderSkipsWithoutURL(t *testing.T) {
	s := &WebhookSender{}
	if err := s.Send(context.Background(), Notification{Subject: "s"}); err != nil {
		t.Fatalf("Send without URL: %v", err)
	}
}
