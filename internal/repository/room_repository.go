package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildingops/maintenance-service/internal/domain"
)

// RoomRepository persists rooms.
type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	Update(ctx context.Context, room *domain.Room) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Room, error)
	GetByLocation(ctx context.Context, buildingID string, floor int, roomNumber string) (*domain.Room, error)
	ListByBuilding(ctx context.Context, buildingID string) ([]domain.Room, error)
}

type roomRepository struct {
	pool *pgxpool.Pool
}

// NewRoomRepository builds repository.
func NewRoomRepository(pool *pgxpool.Pool) RoomRepository {
	return &roomRepository{pool: pool}
}

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	const query = `
        INSERT INTO rooms (building_id, floor_number, room_number, room_type)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		room.BuildingID,
		room.Floor,
		room.RoomNumber,
		room.RoomType,
	).Scan(&room.ID, &room.CreatedAt, &room.UpdatedAt)
}

func (r *roomRepository) Update(ctx context.Context, room *domain.Room) error {
	const query = `
        UPDATE rooms SET floor_number=$1, room_number=$2, room_type=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query, room.Floor, room.RoomNumber, room.RoomType, room.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *roomRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM rooms WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *roomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	const query = `
        SELECT id, building_id, floor_number, room_number, room_type, created_at, updated_at
        FROM rooms WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *roomRepository) GetByLocation(ctx context.Context, buildingID string, floor int, roomNumber string) (*domain.Room, error) {
	const query = `
        SELECT id, building_id, floor_number, room_number, room_type, created_at, updated_at
        FROM rooms WHERE building_id=$1 AND floor_number=$2 AND room_number=$3`
	return r.fetchSingle(ctx, query, buildingID, floor, roomNumber)
}

func (r *roomRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Room, error) {
	var room domain.Room
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&room.ID,
		&room.BuildingID,
		&room.Floor,
		&room.RoomNumber,
		&room.RoomType,
		&room.CreatedAt,
		&room.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) ListByBuilding(ctx context.Context, buildingID string) ([]domain.Room, error) {
	const query = `
        SELECT id, building_id, floor_number, room_number, room_type, created_at, updated_at
        FROM rooms WHERE building_id=$1 ORDER BY floor_number ASC, room_number ASC`
	rows, err := r.pool.Query(ctx, query, buildingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Room
	for rows.Next() {
		var room domain.Room
		if err := rows.Scan(
			&room.ID,
			&room.BuildingID,
			&room.Floor,
			&room.RoomNumber,
			&room.RoomType,
			&room.CreatedAt,
			&room.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, room)
	}
	return result, rows.Err()
}
