package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/buildingops/maintenance-service/internal/domain"
	"github.com/buildingops/maintenance-service/internal/repository"
)

func timeNowFixed() time.Time {
	return time.Date(2026, time.February, 15, 10, 0, 0, 0, time.UTC)
}

type fakeTxRunner struct {
	fail error
}

func (f *fakeTxRunner) InTx(_ context.Context, fn func(tx pgx.Tx) error) error {
	if f.fail != nil {
		return f.fail
	}
	return fn(nil)
}

type fakeTicketRepo struct {
	seq     int
	tickets map[string]*domain.Ticket
	clock   func() time.Time
}

func newFakeTicketRepo(clock func() time.Time) *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]*domain.Ticket), clock: clock}
}

func (r *fakeTicketRepo) Create(_ context.Context, _ pgx.Tx, ticket *domain.Ticket) error {
	r.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", r.seq)
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = r.clock()
	}
	ticket.UpdatedAt = r.clock()
	stored := *ticket
	r.tickets[ticket.ID] = &stored
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, _ pgx.Tx, ticket *domain.Ticket) error {
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = r.clock()
	stored := *ticket
	r.tickets[ticket.ID] = &stored
	return nil
}

func (r *fakeTicketRepo) Delete(_ context.Context, _ pgx.Tx, id string) error {
	if _, ok := r.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tickets, id)
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if filter.ReporterID != nil && ticket.ReporterID != *filter.ReporterID {
			continue
		}
		if filter.AssigneeID != nil && (ticket.AssigneeID == nil || *ticket.AssigneeID != *filter.AssigneeID) {
			continue
		}
		if filter.BuildingID != nil && ticket.BuildingID != *filter.BuildingID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
			continue
		}
		if filter.SearchTerm != nil {
			term := strings.ToLower(*filter.SearchTerm)
			if !strings.Contains(strings.ToLower(ticket.Title), term) &&
				!strings.Contains(strings.ToLower(ticket.Description), term) {
				continue
			}
		}
		result = append(result, *ticket)
	}
	return result, nil
}

func (r *fakeTicketRepo) ListOverdue(_ context.Context, now time.Time) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if ticket.IsOverdue(now) {
			result = append(result, *ticket)
		}
	}
	return result, nil
}

func (r *fakeTicketRepo) ListOverdueByAssignee(_ context.Context, assigneeID string, now time.Time) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if ticket.IsOverdue(now) && ticket.AssigneeID != nil && *ticket.AssigneeID == assigneeID {
			result = append(result, *ticket)
		}
	}
	return result, nil
}

func (r *fakeTicketRepo) ListDueSoon(_ context.Context, from, to time.Time) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if ticket.IsDueSoon(from, to.Sub(from)) {
			result = append(result, *ticket)
		}
	}
	return result, nil
}

func (r *fakeTicketRepo) ListUnassigned(_ context.Context) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if ticket.AssigneeID == nil && ticket.Status == domain.TicketStatusOpen {
			result = append(result, *ticket)
		}
	}
	return result, nil
}

func (r *fakeTicketRepo) ListRecentlyUpdated(_ context.Context, since time.Time, limit int) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if ticket.UpdatedAt.After(since) {
			result = append(result, *ticket)
		}
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (r *fakeTicketRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(r.tickets)), nil
}

func (r *fakeTicketRepo) CountByStatus(_ context.Context, status domain.TicketStatus) (int64, error) {
	var count int64
	for _, ticket := range r.tickets {
		if ticket.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *fakeTicketRepo) CountByReporter(_ context.Context, reporterID string) (int64, error) {
	var count int64
	for _, ticket := range r.tickets {
		if ticket.ReporterID == reporterID {
			count++
		}
	}
	return count, nil
}

func (r *fakeTicketRepo) CountByAssignee(_ context.Context, assigneeID string) (int64, error) {
	var count int64
	for _, ticket := range r.tickets {
		if ticket.AssigneeID != nil && *ticket.AssigneeID == assigneeID {
			count++
		}
	}
	return count, nil
}

func (r *fakeTicketRepo) CountActiveByBuilding(_ context.Context, buildingID string) (int64, error) {
	var count int64
	for _, ticket := range r.tickets {
		if ticket.BuildingID == buildingID && ticket.IsActive() {
			count++
		}
	}
	return count, nil
}

func (r *fakeTicketRepo) CountActiveByRoom(_ context.Context, roomID string) (int64, error) {
	var count int64
	for _, ticket := range r.tickets {
		if ticket.RoomID != nil && *ticket.RoomID == roomID && ticket.IsActive() {
			count++
		}
	}
	return count, nil
}

func (r *fakeTicketRepo) CountActiveByCategory(_ context.Context, categoryID string) (int64, error) {
	var count int64
	for _, ticket := range r.tickets {
		if ticket.CategoryID == categoryID && ticket.IsActive() {
			count++
		}
	}
	return count, nil
}

func (r *fakeTicketRepo) GroupCountByStatus(_ context.Context) (map[string]int64, error) {
	result := make(map[string]int64)
	for _, ticket := range r.tickets {
		result[string(ticket.Status)]++
	}
	return result, nil
}

func (r *fakeTicketRepo) GroupCountByPriority(_ context.Context) (map[string]int64, error) {
	result := make(map[string]int64)
	for _, ticket := range r.tickets {
		result[string(ticket.Priority)]++
	}
	return result, nil
}

func (r *fakeTicketRepo) GroupCountByCategory(_ context.Context) (map[string]int64, error) {
	result := make(map[string]int64)
	for _, ticket := range r.tickets {
		result[ticket.CategoryID]++
	}
	return result, nil
}

func (r *fakeTicketRepo) GroupCountByMonth(_ context.Context, since time.Time) ([]repository.MonthBucket, error) {
	counts := make(map[[2]int]int64)
	for _, ticket := range r.tickets {
		if ticket.CreatedAt.Before(since) {
			continue
		}
		key := [2]int{ticket.CreatedAt.Year(), int(ticket.CreatedAt.Month())}
		counts[key]++
	}
	var buckets []repository.MonthBucket
	for key, count := range counts {
		buckets = append(buckets, repository.MonthBucket{Year: key[0], Month: key[1], Count: count})
	}
	return buckets, nil
}

func containsStatus(statuses []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type fakeHistoryRepo struct {
	seq     int
	entries []domain.TicketStatusHistory
	clock   func() time.Time
}

func newFakeHistoryRepo(clock func() time.Time) *fakeHistoryRepo {
	return &fakeHistoryRepo{clock: clock}
}

func (r *fakeHistoryRepo) Create(_ context.Context, _ pgx.Tx, history *domain.TicketStatusHistory) error {
	r.seq++
	history.ID = fmt.Sprintf("history-%d", r.seq)
	history.CreatedAt = r.clock()
	r.entries = append(r.entries, *history)
	return nil
}

func (r *fakeHistoryRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketStatusHistory, error) {
	var result []domain.TicketStatusHistory
	for _, entry := range r.entries {
		if entry.TicketID == ticketID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (r *fakeHistoryRepo) byTicket(ticketID string) []domain.TicketStatusHistory {
	entries, _ := r.ListByTicket(context.Background(), ticketID)
	return entries
}

type fakeCommentRepo struct {
	seq      int
	comments []domain.Comment
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.seq++
	comment.ID = fmt.Sprintf("comment-%d", r.seq)
	comment.CreatedAt = time.Now()
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeCommentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Comment, error) {
	var result []domain.Comment
	for _, comment := range r.comments {
		if comment.TicketID == ticketID {
			result = append(result, comment)
		}
	}
	return result, nil
}

func (r *fakeCommentRepo) CountByTicket(_ context.Context, ticketID string) (int64, error) {
	comments, _ := r.ListByTicket(context.Background(), ticketID)
	return int64(len(comments)), nil
}

type fakeAttachmentRepo struct {
	seq         int
	attachments []domain.Attachment
}

func (r *fakeAttachmentRepo) Create(_ context.Context, attachment *domain.Attachment) error {
	r.seq++
	attachment.ID = fmt.Sprintf("attachment-%d", r.seq)
	attachment.CreatedAt = time.Now()
	r.attachments = append(r.attachments, *attachment)
	return nil
}

func (r *fakeAttachmentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Attachment, error) {
	var result []domain.Attachment
	for _, attachment := range r.attachments {
		if attachment.TicketID == ticketID {
			result = append(result, attachment)
		}
	}
	return result, nil
}

type fakeBuildingRepo struct {
	seq       int
	buildings map[string]*domain.Building
}

func newFakeBuildingRepo() *fakeBuildingRepo {
	return &fakeBuildingRepo{buildings: make(map[string]*domain.Building)}
}

func (r *fakeBuildingRepo) Create(_ context.Context, building *domain.Building) error {
	r.seq++
	building.ID = fmt.Sprintf("building-%d", r.seq)
	stored := *building
	r.buildings[building.ID] = &stored
	return nil
}

func (r *fakeBuildingRepo) Update(_ context.Context, building *domain.Building) error {
	if _, ok := r.buildings[building.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *building
	r.buildings[building.ID] = &stored
	return nil
}

func (r *fakeBuildingRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.buildings[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.buildings, id)
	return nil
}

func (r *fakeBuildingRepo) GetByID(_ context.Context, id string) (*domain.Building, error) {
	building, ok := r.buildings[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *building
	return &copied, nil
}

func (r *fakeBuildingRepo) List(_ context.Context, activeOnly bool) ([]domain.Building, error) {
	var result []domain.Building
	for _, building := range r.buildings {
		if activeOnly && !building.Active {
			continue
		}
		result = append(result, *building)
	}
	return result, nil
}

type fakeRoomRepo struct {
	seq   int
	rooms map[string]*domain.Room
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{rooms: make(map[string]*domain.Room)}
}

func (r *fakeRoomRepo) Create(_ context.Context, room *domain.Room) error {
	r.seq++
	room.ID = fmt.Sprintf("room-%d", r.seq)
	stored := *room
	r.rooms[room.ID] = &stored
	return nil
}

func (r *fakeRoomRepo) Update(_ context.Context, room *domain.Room) error {
	if _, ok := r.rooms[room.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *room
	r.rooms[room.ID] = &stored
	return nil
}

func (r *fakeRoomRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.rooms[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.rooms, id)
	return nil
}

func (r *fakeRoomRepo) GetByID(_ context.Context, id string) (*domain.Room, error) {
	room, ok := r.rooms[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *room
	return &copied, nil
}

func (r *fakeRoomRepo) GetByLocation(_ context.Context, buildingID string, floor int, roomNumber string) (*domain.Room, error) {
	for _, room := range r.rooms {
		if room.BuildingID == buildingID && room.Floor == floor && room.RoomNumber == roomNumber {
			copied := *room
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeRoomRepo) ListByBuilding(_ context.Context, buildingID string) ([]domain.Room, error) {
	var result []domain.Room
	for _, room := range r.rooms {
		if room.BuildingID == buildingID {
			result = append(result, *room)
		}
	}
	return result, nil
}

type fakeCategoryRepo struct {
	seq        int
	categories map[string]*domain.TicketCategory
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[string]*domain.TicketCategory)}
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *domain.TicketCategory) error {
	r.seq++
	category.ID = fmt.Sprintf("category-%d", r.seq)
	stored := *category
	r.categories[category.ID] = &stored
	return nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *domain.TicketCategory) error {
	if _, ok := r.categories[category.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *category
	r.categories[category.ID] = &stored
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.categories[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id string) (*domain.TicketCategory, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *category
	return &copied, nil
}

func (r *fakeCategoryRepo) GetByName(_ context.Context, name string) (*domain.TicketCategory, error) {
	for _, category := range r.categories {
		if category.Name == name {
			copied := *category
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]domain.TicketCategory, error) {
	var result []domain.TicketCategory
	for _, category := range r.categories {
		result = append(result, *category)
	}
	return result, nil
}

type fakeUserRepo struct {
	seq   int
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	user.CreatedAt = time.Now()
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ListByRole(_ context.Context, role domain.Role, activeOnly bool) ([]domain.User, error) {
	var result []domain.User
	for _, user := range r.users {
		if user.Role != role {
			continue
		}
		if activeOnly && !user.Active {
			continue
		}
		result = append(result, *user)
	}
	return result, nil
}
