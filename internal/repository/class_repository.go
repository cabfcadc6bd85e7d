package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ishita-lives/schedulr/internal/model"
	"github.com/ishita-lives/schedulr/internal/repository/base"
)

// advisoryClassDay namespaces the per-day advisory locks.
const advisoryClassDay = 7301

const classColumns = `c.id, c.subject, c.teacher_id, c.day_of_week, c.start_minute, c.end_minute, c.capacity, c.created_at, c.updated_at`

type PgClassRepository struct {
	*base.Repository
}

func NewClassRepository(q Querier) *PgClassRepository {
	return &PgClassRepository{Repository: base.NewRepository(q)}
}

// Create inserts the slot and fills its ID and timestamps.
func (r *PgClassRepository) Create(ctx context.Context, slot *model.ClassSlot) error {
	query := `
		INSERT INTO class_slots (id, subject, teacher_id, day_of_week, start_minute, end_minute, capacity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}

	err := r.QueryRow(
		ctx, query,
		slot.ID,
		slot.Subject,
		slot.TeacherID,
		slot.DayOfWeek,
		int(slot.StartTime),
		int(slot.EndTime),
		slot.Capacity,
	).Scan(&slot.CreatedAt, &slot.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create class slot: %w", translate(err))
	}

	return nil
}

func (r *PgClassRepository) Update(ctx context.Context, slot *model.ClassSlot) error {
	query := `
		UPDATE class_slots
		SET subject = $2, teacher_id = $3, day_of_week = $4, start_minute = $5, end_minute = $6,
		    capacity = $7, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.QueryRow(
		ctx, query,
		slot.ID,
		slot.Subject,
		slot.TeacherID,
		slot.DayOfWeek,
		int(slot.StartTime),
		int(slot.EndTime),
		slot.Capacity,
	).Scan(&slot.UpdatedAt)

	if err != nil {
		if base.IsNotFound(err) {
			return ErrNotAffected
		}
		return fmt.Errorf("update class slot: %w", translate(err))
	}

	return nil
}

func (r *PgClassRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.ExecAffected(ctx, `DELETE FROM class_slots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete class slot: %w", err)
	}
	if n == 0 {
		return ErrNotAffected
	}
	return nil
}

func (r *PgClassRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ClassSlot, error) {
	query := `SELECT ` + classColumns + ` FROM class_slots c WHERE c.id = $1`
	return r.getOne(ctx, query, id)
}

func (r *PgClassRepository) LockByID(ctx context.Context, id uuid.UUID) (*model.ClassSlot, error) {
	query := `SELECT ` + classColumns + ` FROM class_slots c WHERE c.id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

// LockDay takes a transaction-scoped advisory lock keyed by the weekday.
func (r *PgClassRepository) LockDay(ctx context.Context, day int) error {
	_, err := r.Querier().Exec(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, advisoryClassDay, day)
	if err != nil {
		return fmt.Errorf("lock day %d: %w", day, err)
	}
	return nil
}

func (r *PgClassRepository) ListByDay(ctx context.Context, day int) ([]*model.ClassSlot, error) {
	query := `
		SELECT ` + classColumns + `
		FROM class_slots c
		WHERE c.day_of_week = $1
		ORDER BY c.start_minute, c.id
	`
	return r.list(ctx, "list classes by day", query, day)
}

func (r *PgClassRepository) List(ctx context.Context) ([]*model.ClassSlot, error) {
	query := `
		SELECT ` + classColumns + `
		FROM class_slots c
		ORDER BY c.day_of_week, c.start_minute, c.id
	`
	return r.list(ctx, "list classes", query)
}

func (r *PgClassRepository) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*model.ClassSlot, error) {
	query := `
		SELECT ` + classColumns + `
		FROM class_slots c
		WHERE c.teacher_id = $1
		ORDER BY c.day_of_week, c.start_minute, c.id
	`
	return r.list(ctx, "list classes by teacher", query, teacherID)
}

func (r *PgClassRepository) ListByGuardian(ctx context.Context, guardianID uuid.UUID) ([]*model.ClassSlot, error) {
	query := `
		SELECT ` + classColumns + `
		FROM class_slots c
		WHERE EXISTS (
			SELECT 1
			FROM enrollments e
			JOIN students s ON s.id = e.student_id
			WHERE e.class_id = c.id AND s.guardian_id = $1
		)
		ORDER BY c.day_of_week, c.start_minute, c.id
	`
	return r.list(ctx, "list classes by guardian", query, guardianID)
}

func (r *PgClassRepository) getOne(ctx context.Context, query string, id uuid.UUID) (*model.ClassSlot, error) {
	slot, err := scanClass(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get class slot %s: %w", id, err)
	}
	return slot, nil
}

func (r *PgClassRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.ClassSlot, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var slots []*model.ClassSlot
	for rows.Next() {
		slot, err := scanClass(rows)
		if err != nil {
			return nil, fmt.Errorf("scan class slot: %w", err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return slots, nil
}

func scanClass(row pgx.Row) (*model.ClassSlot, error) {
	var (
		slot       model.ClassSlot
		start, end int
	)
	err := row.Scan(
		&slot.ID,
		&slot.Subject,
		&slot.TeacherID,
		&slot.DayOfWeek,
		&start,
		&end,
		&slot.Capacity,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	slot.StartTime = model.Clock(start)
	slot.EndTime = model.Clock(end)
	return &slot, nil
}
