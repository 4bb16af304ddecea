package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var received []Event
	dispatcher.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		received = append(received, e)
		return nil
	})
	dispatcher.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		received = append(received, e)
		return nil
	})

	event := Event{ID: "e1", Type: EventTicketCreated, TicketID: "t1"}
	if err := dispatcher.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(received) != 2 {
		t.Fatalf("deliveries = %d, want 2", len(received))
	}
}

func TestDispatcherIgnoresUnrelatedTypes(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	called := false
	dispatcher.Subscribe(EventTicketDeleted, func(_ context.Context, _ Event) error {
		called = true
		return nil
	})

	if err := dispatcher.Publish(context.Background(), Event{Type: EventTicketCreated}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if called {
		t.Fatal("handler invoked for unrelated event type")
	}
}

func TestDispatcherContinuesAfterHandlerError(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var secondCalled bool
	dispatcher.Subscribe(EventTicketAssigned, func(_ context.Context, _ Event) error {
		return errors.New("boom")
	})
	dispatcher.Subscribe(EventTicketAssigned, func(_ context.Context, _ Event) error {
		secondCalled = true
		return nil
	})

	if err := dispatcher.Publish(context.Background(), Event{Type: EventTicketAssigned}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if !secondCalled {
		t.Fatal("later handler skipped after earlier error")
	}
}
