package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildingops/maintenance-service/internal/domain"
)

// CategoryRepository persists ticket categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.TicketCategory) error
	Update(ctx context.Context, category *domain.TicketCategory) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.TicketCategory, error)
	GetByName(ctx context.Context, name string) (*domain.TicketCategory, error)
	List(ctx context.Context) ([]domain.TicketCategory, error)
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository builds repository.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.TicketCategory) error {
	const query = `
        INSERT INTO ticket_categories (name, description, default_priority)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		category.Name,
		category.Description,
		category.DefaultPriority,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.TicketCategory) error {
	const query = `
        UPDATE ticket_categories SET name=$1, description=$2, default_priority=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		category.Name,
		category.Description,
		category.DefaultPriority,
		category.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM ticket_categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*domain.TicketCategory, error) {
	const query = `
        SELECT id, name, description, default_priority, created_at, updated_at
        FROM ticket_categories WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*domain.TicketCategory, error) {
	const query = `
        SELECT id, name, description, default_priority, created_at, updated_at
        FROM ticket_categories WHERE name=$1`
	return r.fetchSingle(ctx, query, name)
}

func (r *categoryRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.TicketCategory, error) {
	var category domain.TicketCategory
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.DefaultPriority,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.TicketCategory, error) {
	const query = `
        SELECT id, name, description, default_priority, created_at, updated_at
        FROM ticket_categories ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketCategory
	for rows.Next() {
		var category domain.TicketCategory
		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Description,
			&category.DefaultPriority,
			&category.CreatedAt,
			&category.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}
