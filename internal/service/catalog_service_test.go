package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/buildingops/maintenance-service/internal/domain"
	apperrors "github.com/buildingops/maintenance-service/pkg/util"
)

type catalogFixture struct {
	svc       *CatalogService
	tickets   *fakeTicketRepo
	buildings *fakeBuildingRepo
	rooms     *fakeRoomRepo
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	fix := &catalogFixture{
		tickets:   newFakeTicketRepo(timeNowFixed),
		buildings: newFakeBuildingRepo(),
		rooms:     newFakeRoomRepo(),
	}
	fix.svc = NewCatalogService(CatalogDependencies{
		BuildingRepo: fix.buildings,
		RoomRepo:     fix.rooms,
		CategoryRepo: newFakeCategoryRepo(),
		TicketRepo:   fix.tickets,
		Logger:       zap.NewNop(),
	})
	return fix
}

func TestCreateRoomRejectsDuplicateLocation(t *testing.T) {
	fix := newCatalogFixture(t)
	ctx := context.Background()

	building := &domain.Building{Name: "North Tower", Address: "1 Main St", Active: true}
	if _, err := fix.svc.CreateBuilding(ctx, building); err != nil {
		t.Fatalf("CreateBuilding: %v", err)
	}

	room := &domain.Room{BuildingID: building.ID, Floor: 2, RoomNumber: "204"}
	if _, err := fix.svc.CreateRoom(ctx, room); err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	duplicate := &domain.Room{BuildingID: building.ID, Floor: 2, RoomNumber: "204"}
	_, err := fix.svc.CreateRoom(ctx, duplicate)
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "CONFLICT" {
		t.Fatalf("duplicate room error = %v, want CONFLICT", err)
	}

	// Same number on a different floor is a different room.
	otherFloor := &domain.Room{BuildingID: building.ID, Floor: 3, RoomNumber: "204"}
	if _, err := fix.svc.CreateRoom(ctx, otherFloor); err != nil {
		t.Fatalf("same number on other floor rejected: %v", err)
	}
}

func TestDeleteBuildingBlockedByActiveTickets(t *testing.T) {
	fix := newCatalogFixture(t)
	ctx := context.Background()

	building := &domain.Building{Name: "North Tower", Address: "1 Main St", Active: true}
	if _, err := fix.svc.CreateBuilding(ctx, building); err != nil {
		t.Fatalf("CreateBuilding: %v", err)
	}

	ticket := &domain.Ticket{
		Title: "leak", Description: "d",
		Status:     domain.TicketStatusResolved,
		Priority:   domain.TicketPriorityLow,
		BuildingID: building.ID,
	}
	if err := fix.tickets.Create(ctx, nil, ticket); err != nil {
		t.Fatalf("seed ticket: %v", err)
	}

	// RESOLVED still counts as active; only CLOSED releases the building.
	err := fix.svc.DeleteBuilding(ctx, building.ID)
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "CONFLICT" {
		t.Fatalf("delete with resolved ticket = %v, want CONFLICT", err)
	}

	ticket.Status = domain.TicketStatusClosed
	if err := fix.tickets.Update(ctx, nil, ticket); err != nil {
		t.Fatalf("close ticket: %v", err)
	}
	if err := fix.svc.DeleteBuilding(ctx, building.ID); err != nil {
		t.Fatalf("delete with closed ticket: %v", err)
	}
}

func TestCategoryNameUnique(t *testing.T) {
	fix := newCatalogFixture(t)
	ctx := context.Background()

	first := &domain.TicketCategory{Name: "Plumbing", DefaultPriority: domain.TicketPriorityMedium}
	if _, err := fix.svc.CreateCategory(ctx, first); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	_, err := fix.svc.CreateCategory(ctx, &domain.TicketCategory{
		Name: "Plumbing", DefaultPriority: domain.TicketPriorityLow,
	})
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "CONFLICT" {
		t.Fatalf("duplicate category error = %v, want CONFLICT", err)
	}

	// Updating a category to its own name is not a conflict.
	first.Description = "pipes and fixtures"
	if _, err := fix.svc.UpdateCategory(ctx, first); err != nil {
		t.Fatalf("self-named update rejected: %v", err)
	}
}

func TestCategoryValidation(t *testing.T) {
	fix := newCatalogFixture(t)
	ctx := context.Background()

	_, err := fix.svc.CreateCategory(ctx, &domain.TicketCategory{Name: "Electrical"})
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
		t.Fatalf("missing default priority = %v, want VALIDATION_FAILED", err)
	}

	_, err = fix.svc.CreateCategory(ctx, &domain.TicketCategory{
		Name: "Electrical", DefaultPriority: "WHENEVER",
	})
	if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
		t.Fatalf("invalid default priority = %v, want VALIDATION_FAILED", err)
	}
}

func TestGetBuildingNotFound(t *testing.T) {
	fix := newCatalogFixture(t)
	if _, err := fix.svc.GetBuilding(context.Background(), "missing"); !apperrors.IsNotFound(err) {
		t.Fatalf("error = %v, want NOT_FOUND", err)
	}
}
