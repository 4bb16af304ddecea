package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildingops/maintenance-service/internal/domain"
)

// BuildingRepository persists buildings.
type BuildingRepository interface {
	Create(ctx context.Context, building *domain.Building) error
	Update(ctx context.Context, building *domain.Building) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Building, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Building, error)
}

type buildingRepository struct {
	pool *pgxpool.Pool
}

// NewBuildingRepository builds repository.
func NewBuildingRepository(pool *pgxpool.Pool) BuildingRepository {
	return &buildingRepository{pool: pool}
}

func (r *buildingRepository) Create(ctx context.Context, building *domain.Building) error {
	const query = `
        INSERT INTO buildings (name, address, city, state, zip_code, manager_id, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		building.Name,
		building.Address,
		building.City,
		building.State,
		building.ZipCode,
		building.ManagerID,
		building.Active,
	).Scan(&building.ID, &building.CreatedAt, &building.UpdatedAt)
}

func (r *buildingRepository) Update(ctx context.Context, building *domain.Building) error {
	const query = `
        UPDATE buildings SET name=$1, address=$2, city=$3, state=$4, zip_code=$5,
            manager_id=$6, is_active=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		building.Name,
		building.Address,
		building.City,
		building.State,
		building.ZipCode,
		building.ManagerID,
		building.Active,
		building.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *buildingRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM buildings WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *buildingRepository) GetByID(ctx context.Context, id string) (*domain.Building, error) {
	const query = `
        SELECT id, name, address, city, state, zip_code, manager_id, is_active, created_at, updated_at
        FROM buildings WHERE id=$1`
	var building domain.Building
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&building.ID,
		&building.Name,
		&building.Address,
		&building.City,
		&building.State,
		&building.ZipCode,
		&building.ManagerID,
		&building.Active,
		&building.CreatedAt,
		&building.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &building, nil
}

func (r *buildingRepository) List(ctx context.Context, activeOnly bool) ([]domain.Building, error) {
	query := `
        SELECT id, name, address, city, state, zip_code, manager_id, is_active, created_at, updated_at
        FROM buildings`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Building
	for rows.Next() {
		var building domain.Building
		if err := rows.Scan(
			&building.ID,
			&building.Name,
			&building.Address,
			&building.City,
			&building.State,
			&building.ZipCode,
			&building.ManagerID,
			&building.Active,
			&building.CreatedAt,
			&building.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, building)
	}
	return result, rows.Err()
}
