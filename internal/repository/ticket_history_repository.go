package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildingops/maintenance-service/internal/domain"
)

// TicketHistoryRepository stores append-only audit entries. Create takes a
// pgx.Tx so the entry lands in the same transaction as the ticket mutation
// it records.
type TicketHistoryRepository interface {
	Create(ctx context.Context, tx pgx.Tx, history *domain.TicketStatusHistory) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketStatusHistory, error)
}

type ticketHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewTicketHistoryRepository builds repository.
func NewTicketHistoryRepository(pool *pgxpool.Pool) TicketHistoryRepository {
	return &ticketHistoryRepository{pool: pool}
}

func (r *ticketHistoryRepository) db(tx pgx.Tx) querier {
	if tx != nil {
		return tx
	}
	return r.pool
}

func (r *ticketHistoryRepository) Create(ctx context.Context, tx pgx.Tx, history *domain.TicketStatusHistory) error {
	const query = `
        INSERT INTO ticket_status_history (ticket_id, old_status, new_status, changed_by, change_reason)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.db(tx).QueryRow(ctx, query,
		history.TicketID,
		history.OldStatus,
		history.NewStatus,
		history.ChangedByID,
		history.ChangeReason,
	).Scan(&history.ID, &history.CreatedAt)
}

func (r *ticketHistoryRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketStatusHistory, error) {
	const query = `
        SELECT id, ticket_id, old_status, new_status, changed_by, change_reason, created_at
        FROM ticket_status_history WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketStatusHistory
	for rows.Next() {
		var history domain.TicketStatusHistory
		if err := rows.Scan(
			&history.ID,
			&history.TicketID,
			&history.OldStatus,
			&history.NewStatus,
			&history.ChangedByID,
			&history.ChangeReason,
			&history.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, history)
	}
	return result, rows.Err()
}
