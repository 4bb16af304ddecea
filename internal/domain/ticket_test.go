package domain

import (
	"testing"
	"time"
)

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, time.February, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name     string
		status   TicketStatus
		estimate *time.Time
		want     bool
	}{
		{"open past estimate", TicketStatusOpen, &past, true},
		{"in progress past estimate", TicketStatusInProgress, &past, true},
		{"open future estimate", TicketStatusOpen, &future, false},
		{"open no estimate", TicketStatusOpen, nil, false},
		{"on hold past estimate", TicketStatusOnHold, &past, false},
		{"resolved past estimate", TicketStatusResolved, &past, false},
		{"closed past estimate", TicketStatusClosed, &past, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ticket := Ticket{Status: tc.status, EstimatedCompletion: tc.estimate}
			if got := ticket.IsOverdue(now); got != tc.want {
				t.Fatalf("IsOverdue = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsDueSoon(t *testing.T) {
	now := time.Date(2026, time.February, 15, 12, 0, 0, 0, time.UTC)
	window := 72 * time.Hour

	inWindow := now.Add(24 * time.Hour)
	pastWindow := now.Add(96 * time.Hour)
	behind := now.Add(-time.Hour)

	ticket := Ticket{Status: TicketStatusOpen, EstimatedCompletion: &inWindow}
	if !ticket.IsDueSoon(now, window) {
		t.Fatal("estimate inside window not due soon")
	}
	ticket.EstimatedCompletion = &pastWindow
	if ticket.IsDueSoon(now, window) {
		t.Fatal("estimate beyond window reported due soon")
	}
	ticket.EstimatedCompletion = &behind
	if ticket.IsDueSoon(now, window) {
		t.Fatal("past estimate reported due soon")
	}
	ticket.EstimatedCompletion = nil
	if ticket.IsDueSoon(now, window) {
		t.Fatal("nil estimate reported due soon")
	}
}

func TestIsActive(t *testing.T) {
	for _, status := range []TicketStatus{
		TicketStatusOpen, TicketStatusInProgress, TicketStatusOnHold, TicketStatusResolved,
	} {
		if !(&Ticket{Status: status}).IsActive() {
			t.Fatalf("%s should be active", status)
		}
	}
	if (&Ticket{Status: TicketStatusClosed}).IsActive() {
		t.Fatal("CLOSED should not be active")
	}
}

func TestValidStatusAndPriority(t *testing.T) {
	if ValidStatus("PENDING") {
		t.Fatal("PENDING accepted as status")
	}
	if !ValidStatus(TicketStatusOnHold) {
		t.Fatal("ON_HOLD rejected")
	}
	if ValidPriority("") {
		t.Fatal("empty priority accepted")
	}
	if !ValidPriority(TicketPriorityUrgent) {
		t.Fatal("URGENT rejected")
	}
}
