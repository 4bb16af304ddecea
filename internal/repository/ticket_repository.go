package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildingops/maintenance-service/internal/domain"
)

// TicketFilter captures listing parameters.
type TicketFilter struct {
	ReporterID  *string
	AssigneeID  *string
	BuildingID  *string
	RoomID      *string
	CategoryID  *string
	Statuses    []domain.TicketStatus
	Priorities  []domain.TicketPriority
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// MonthBucket is one (year, month) aggregation row.
type MonthBucket struct {
	Year  int
	Month int
	Count int64
}

// TicketRepository encapsulates ticket persistence. Mutating methods take a
// pgx.Tx so the service can pair a ticket write with its history append in
// one transaction; a nil tx falls back to the pool.
type TicketRepository interface {
	Create(ctx context.Context, tx pgx.Tx, ticket *domain.Ticket) error
	Update(ctx context.Context, tx pgx.Tx, ticket *domain.Ticket) error
	Delete(ctx context.Context, tx pgx.Tx, id string) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	ListOverdue(ctx context.Context, now time.Time) ([]domain.Ticket, error)
	ListOverdueByAssignee(ctx context.Context, assigneeID string, now time.Time) ([]domain.Ticket, error)
	ListDueSoon(ctx context.Context, from, to time.Time) ([]domain.Ticket, error)
	ListUnassigned(ctx context.Context) ([]domain.Ticket, error)
	ListRecentlyUpdated(ctx context.Context, since time.Time, limit int) ([]domain.Ticket, error)
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status domain.TicketStatus) (int64, error)
	CountByReporter(ctx context.Context, reporterID string) (int64, error)
	CountByAssignee(ctx context.Context, assigneeID string) (int64, error)
	CountActiveByBuilding(ctx context.Context, buildingID string) (int64, error)
	CountActiveByRoom(ctx context.Context, roomID string) (int64, error)
	CountActiveByCategory(ctx context.Context, categoryID string) (int64, error)
	GroupCountByStatus(ctx context.Context) (map[string]int64, error)
	GroupCountByPriority(ctx context.Context) (map[string]int64, error)
	GroupCountByCategory(ctx context.Context) (map[string]int64, error)
	GroupCountByMonth(ctx context.Context, since time.Time) ([]MonthBucket, error)
}

const ticketColumns = `id, title, description, category_id, priority, status,
               reporter_id, assignee_id, building_id, room_id,
               estimated_completion, actual_completion, resolution_notes,
               created_at, updated_at`

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) db(tx pgx.Tx) querier {
	if tx != nil {
		return tx
	}
	return r.pool
}

func (r *ticketRepository) Create(ctx context.Context, tx pgx.Tx, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, category_id, priority, status,
            reporter_id, assignee_id, building_id, room_id,
            estimated_completion, resolution_notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`
	return r.db(tx).QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.CategoryID,
		ticket.Priority,
		ticket.Status,
		ticket.ReporterID,
		ticket.AssigneeID,
		ticket.BuildingID,
		ticket.RoomID,
		ticket.EstimatedCompletion,
		ticket.ResolutionNotes,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, tx pgx.Tx, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, category_id=$3, priority=$4,
            status=$5, assignee_id=$6, building_id=$7, room_id=$8,
            estimated_completion=$9, actual_completion=$10, resolution_notes=$11,
            updated_at=NOW()
        WHERE id=$12`
	cmd, err := r.db(tx).Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.CategoryID,
		ticket.Priority,
		ticket.Status,
		ticket.AssigneeID,
		ticket.BuildingID,
		ticket.RoomID,
		ticket.EstimatedCompletion,
		ticket.ActualCompletion,
		ticket.ResolutionNotes,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a ticket and the collections it owns. The schema carries
// ON DELETE CASCADE as well; the explicit statements keep the ownership
// rule visible in one place.
func (r *ticketRepository) Delete(ctx context.Context, tx pgx.Tx, id string) error {
	db := r.db(tx)
	for _, query := range []string{
		`DELETE FROM ticket_comments WHERE ticket_id=$1`,
		`DELETE FROM ticket_attachments WHERE ticket_id=$1`,
		`DELETE FROM ticket_status_history WHERE ticket_id=$1`,
	} {
		if _, err := db.Exec(ctx, query, id); err != nil {
			return err
		}
	}
	cmd, err := db.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := scanTicket(r.pool.QueryRow(ctx, query, id), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT ` + ticketColumns + ` FROM tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ReporterID != nil {
		args = append(args, *filter.ReporterID)
		clauses = append(clauses, fmt.Sprintf("reporter_id=$%d", len(args)))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("assignee_id=$%d", len(args)))
	}
	if filter.BuildingID != nil {
		args = append(args, *filter.BuildingID)
		clauses = append(clauses, fmt.Sprintf("building_id=$%d", len(args)))
	}
	if filter.RoomID != nil {
		args = append(args, *filter.RoomID)
		clauses = append(clauses, fmt.Sprintf("room_id=$%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("category_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListOverdue(ctx context.Context, now time.Time) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets
             WHERE status IN ('OPEN','IN_PROGRESS')
               AND estimated_completion IS NOT NULL
               AND estimated_completion < $1
             ORDER BY estimated_completion ASC`
	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListOverdueByAssignee(ctx context.Context, assigneeID string, now time.Time) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets
             WHERE assignee_id=$1
               AND status IN ('OPEN','IN_PROGRESS')
               AND estimated_completion IS NOT NULL
               AND estimated_completion < $2
             ORDER BY estimated_completion ASC`
	rows, err := r.pool.Query(ctx, query, assigneeID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListDueSoon(ctx context.Context, from, to time.Time) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets
             WHERE status IN ('OPEN','IN_PROGRESS')
               AND estimated_completion BETWEEN $1 AND $2
             ORDER BY estimated_completion ASC`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// ListUnassigned returns only OPEN tickets without an assignee. Tickets in
// other states with no assignee are intentionally excluded.
func (r *ticketRepository) ListUnassigned(ctx context.Context) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets
             WHERE assignee_id IS NULL AND status='OPEN'
             ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListRecentlyUpdated(ctx context.Context, since time.Time, limit int) ([]domain.Ticket, error) {
	if limit <= 0 {
		limit = 10
	}
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE updated_at > $1 ORDER BY updated_at DESC LIMIT %d`,
		ticketColumns, limit)
	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) CountAll(ctx context.Context) (int64, error) {
	return r.scalarCount(ctx, `SELECT COUNT(*) FROM tickets`)
}

func (r *ticketRepository) CountByStatus(ctx context.Context, status domain.TicketStatus) (int64, error) {
	return r.scalarCount(ctx, `SELECT COUNT(*) FROM tickets WHERE status=$1`, status)
}

func (r *ticketRepository) CountByReporter(ctx context.Context, reporterID string) (int64, error) {
	return r.scalarCount(ctx, `SELECT COUNT(*) FROM tickets WHERE reporter_id=$1`, reporterID)
}

func (r *ticketRepository) CountByAssignee(ctx context.Context, assigneeID string) (int64, error) {
	return r.scalarCount(ctx, `SELECT COUNT(*) FROM tickets WHERE assignee_id=$1`, assigneeID)
}

func (r *ticketRepository) CountActiveByBuilding(ctx context.Context, buildingID string) (int64, error) {
	return r.scalarCount(ctx, `SELECT COUNT(*) FROM tickets WHERE building_id=$1 AND status <> 'CLOSED'`, buildingID)
}

func (r *ticketRepository) CountActiveByRoom(ctx context.Context, roomID string) (int64, error) {
	return r.scalarCount(ctx, `SELECT COUNT(*) FROM tickets WHERE room_id=$1 AND status <> 'CLOSED'`, roomID)
}

func (r *ticketRepository) CountActiveByCategory(ctx context.Context, categoryID string) (int64, error) {
	return r.scalarCount(ctx, `SELECT COUNT(*) FROM tickets WHERE category_id=$1 AND status <> 'CLOSED'`, categoryID)
}

func (r *ticketRepository) GroupCountByStatus(ctx context.Context) (map[string]int64, error) {
	return r.groupCount(ctx, `SELECT status, COUNT(*) FROM tickets GROUP BY status`)
}

func (r *ticketRepository) GroupCountByPriority(ctx context.Context) (map[string]int64, error) {
	return r.groupCount(ctx, `SELECT priority, COUNT(*) FROM tickets GROUP BY priority`)
}

func (r *ticketRepository) GroupCountByCategory(ctx context.Context) (map[string]int64, error) {
	return r.groupCount(ctx, `
        SELECT c.name, COUNT(*) FROM tickets t
        JOIN ticket_categories c ON c.id = t.category_id
        GROUP BY c.name`)
}

// GroupCountByMonth groups by (year, month) so windows that cross a year
// boundary produce distinct buckets.
func (r *ticketRepository) GroupCountByMonth(ctx context.Context, since time.Time) ([]MonthBucket, error) {
	const query = `
        SELECT EXTRACT(YEAR FROM created_at)::int,
               EXTRACT(MONTH FROM created_at)::int,
               COUNT(*)
        FROM tickets
        WHERE created_at >= $1
        GROUP BY 1, 2
        ORDER BY 1, 2`
	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []MonthBucket
	for rows.Next() {
		var b MonthBucket
		if err := rows.Scan(&b.Year, &b.Month, &b.Count); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

func (r *ticketRepository) scalarCount(ctx context.Context, query string, args ...any) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ticketRepository) groupCount(ctx context.Context, query string) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int64)
	for rows.Next() {
		var label string
		var count int64
		if err := rows.Scan(&label, &count); err != nil {
			return nil, err
		}
		result[label] = count
	}
	return result, rows.Err()
}

func scanTicket(row pgx.Row, ticket *domain.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.CategoryID,
		&ticket.Priority,
		&ticket.Status,
		&ticket.ReporterID,
		&ticket.AssigneeID,
		&ticket.BuildingID,
		&ticket.RoomID,
		&ticket.EstimatedCompletion,
		&ticket.ActualCompletion,
		&ticket.ResolutionNotes,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
