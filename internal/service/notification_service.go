package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/buildingops/maintenance-service/internal/domain"
	"github.com/buildingops/maintenance-service/internal/events"
	"github.com/buildingops/maintenance-service/internal/repository"
	"github.com/buildingops/maintenance-service/internal/worker"
)

// NotificationService translates domain events into outbound messages for
// the people on a ticket. Delivery is best effort: a failed lookup or a full
// queue never affects the lifecycle call that raised the event.
type NotificationService struct {
	tickets repository.TicketRepository
	users   repository.UserRepository
	worker  *worker.NotificationWorker
	logger  *zap.Logger
}

// NewNotificationService constructs the service.
func NewNotificationService(tickets repository.TicketRepository, users repository.UserRepository, w *worker.NotificationWorker, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{tickets: tickets, users: users, worker: w, logger: logger}
}

// RegisterHandlers subscribes to lifecycle events.
func (s *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventTicketCreated, s.onTicketCreated)
	dispatcher.Subscribe(events.EventTicketStatusChanged, s.onStatusChanged)
	dispatcher.Subscribe(events.EventTicketAssigned, s.onAssigned)
	dispatcher.Subscribe(events.EventTicketCommented, s.onCommented)
}

func (s *NotificationService) onTicketCreated(ctx context.Context, event events.Event) error {
	ticket, reporter := s.lookupTicketAndReporter(ctx, event.TicketID)
	if ticket == nil || reporter == nil {
		return nil
	}
	s.worker.Enqueue(worker.Notification{
		Recipient: reporter.Email,
		Subject:   fmt.Sprintf("Ticket received: %s", ticket.Title),
		Body:      fmt.Sprintf("Your maintenance request %q was logged with priority %s.", ticket.Title, ticket.Priority),
	})
	return nil
}

func (s *NotificationService) onStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return nil
	}
	ticket, reporter := s.lookupTicketAndReporter(ctx, event.TicketID)
	if ticket == nil || reporter == nil {
		return nil
	}
	s.worker.Enqueue(worker.Notification{
		Recipient: reporter.Email,
		Subject:   fmt.Sprintf("Ticket update: %s", ticket.Title),
		Body:      fmt.Sprintf("Status moved from %s to %s.", payload.OldStatus, payload.NewStatus),
	})
	return nil
}

func (s *NotificationService) onAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok || payload.AssigneeID == nil {
		return nil
	}
	ticket, err := s.tickets.GetByID(ctx, event.TicketID)
	if err != nil {
		s.logger.Debug("notification ticket lookup failed", zap.Error(err))
		return nil
	}
	assignee, err := s.users.GetByID(ctx, *payload.AssigneeID)
	if err != nil {
		s.logger.Debug("notification assignee lookup failed", zap.Error(err))
		return nil
	}
	s.worker.Enqueue(worker.Notification{
		Recipient: assignee.Email,
		Subject:   fmt.Sprintf("Ticket assigned: %s", ticket.Title),
		Body:      fmt.Sprintf("You have been assigned ticket %q (priority %s).", ticket.Title, ticket.Priority),
	})
	return nil
}

func (s *NotificationService) onCommented(ctx context.Context, event events.Event) error {
	ticket, reporter := s.lookupTicketAndReporter(ctx, event.TicketID)
	if ticket == nil || reporter == nil {
		return nil
	}
	// The reporter already knows about their own comment.
	if reporter.ID == event.ActorID {
		return nil
	}
	s.worker.Enqueue(worker.Notification{
		Recipient: reporter.Email,
		Subject:   fmt.Sprintf("New comment on: %s", ticket.Title),
		Body:      "Your ticket received a new comment.",
	})
	return nil
}

func (s *NotificationService) lookupTicketAndReporter(ctx context.Context, ticketID string) (*domain.Ticket, *domain.User) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		s.logger.Debug("notification ticket lookup failed", zap.Error(err))
		return nil, nil
	}
	reporter, err := s.users.GetByID(ctx, ticket.ReporterID)
	if err != nil {
		s.logger.Debug("notification reporter lookup failed", zap.Error(err))
		return ticket, nil
	}
	return ticket, reporter
}
