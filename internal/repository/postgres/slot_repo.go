package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"slotscheduler/internal/domain"
)

type SlotRepository struct {
	DB *sql.DB
}

func NewSlotRepository(db *sql.DB) domain.SlotRepository {
	return &SlotRepository{
		DB: db,
	}
}

func (r *SlotRepository) Create(ctx context.Context, slot *domain.Slot) error {
	query := `
		INSERT INTO slots (id, owner_email, start_time, end_time, duration_minutes, title, attendees, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.DB.ExecContext(ctx, query,
		slot.ID, slot.Owner, slot.Interval.Start, slot.Interval.End, slot.DurationMinutes,
		slot.Title, pq.Array(slot.Attendees), slot.CreatedAt, slot.UpdatedAt,
	)
	return err
}

func (r *SlotRepository) GetByID(ctx context.Context, id string) (*domain.Slot, error) {
	query := `
		SELECT id, owner_email, start_time, end_time, duration_minutes, title, attendees, created_at, updated_at
		FROM slots
		WHERE id = $1
	`
	slot := &domain.Slot{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&slot.ID, &slot.Owner, &slot.Interval.Start, &slot.Interval.End, &slot.DurationMinutes,
		&slot.Title, pq.Array(&slot.Attendees), &slot.CreatedAt, &slot.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return slot, nil
}

func (r *SlotRepository) ListByOwner(ctx context.Context, owner string) ([]*domain.Slot, error) {
	query := `
		SELECT id, owner_email, start_time, end_time, duration_minutes, title, attendees, created_at, updated_at
		FROM slots
		WHERE owner_email = $1
		ORDER BY start_time
	`
	rows, err := r.DB.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var slots []*domain.Slot
	for rows.Next() {
		slot := &domain.Slot{}
		if err := rows.Scan(
			&slot.ID, &slot.Owner, &slot.Interval.Start, &slot.Interval.End, &slot.DurationMinutes,
			&slot.Title, pq.Array(&slot.Attendees), &slot.CreatedAt, &slot.UpdatedAt,
		); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

func (r *SlotRepository) Update(ctx context.Context, slot *domain.Slot) error {
	query := `
		UPDATE slots
		SET start_time = $2, end_time = $3, duration_minutes = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.DB.QueryRowContext(ctx, query,
		slot.ID, slot.Interval.Start, slot.Interval.End, slot.DurationMinutes,
	).Scan(&slot.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *SlotRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM slots WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
