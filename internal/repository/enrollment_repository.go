package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ishita-lives/schedulr/internal/model"
	"github.com/ishita-lives/schedulr/internal/repository/base"
)

type PgEnrollmentRepository struct {
	*base.Repository
}

func NewEnrollmentRepository(q Querier) *PgEnrollmentRepository {
	return &PgEnrollmentRepository{Repository: base.NewRepository(q)}
}

// Create inserts the enrollment. A second enrollment of the same student in
// the same class fails with ErrDuplicate.
func (r *PgEnrollmentRepository) Create(ctx context.Context, e *model.Enrollment) error {
	query := `
		INSERT INTO enrollments (id, student_id, class_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	err := r.QueryRow(ctx, query, e.ID, e.StudentID, e.ClassID).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("create enrollment: %w", translate(err))
	}

	return nil
}

func (r *PgEnrollmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.ExecAffected(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	if n == 0 {
		return ErrNotAffected
	}
	return nil
}

func (r *PgEnrollmentRepository) DeleteByClass(ctx context.Context, classID uuid.UUID) (int64, error) {
	n, err := r.ExecAffected(ctx, `DELETE FROM enrollments WHERE class_id = $1`, classID)
	if err != nil {
		return 0, fmt.Errorf("delete enrollments by class: %w", err)
	}
	return n, nil
}

func (r *PgEnrollmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Enrollment, error) {
	query := `
		SELECT id, student_id, class_id, created_at
		FROM enrollments
		WHERE id = $1
	`

	e, err := scanEnrollment(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get enrollment by id: %w", err)
	}

	return e, nil
}

func (r *PgEnrollmentRepository) Exists(ctx context.Context, studentID, classID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM enrollments WHERE student_id = $1 AND class_id = $2)`

	var exists bool
	if err := r.QueryRow(ctx, query, studentID, classID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}

	return exists, nil
}

func (r *PgEnrollmentRepository) CountByClass(ctx context.Context, classID uuid.UUID) (int, error) {
	n, err := r.Count(ctx, `SELECT COUNT(*) FROM enrollments WHERE class_id = $1`, classID)
	if err != nil {
		return 0, fmt.Errorf("count enrollments: %w", err)
	}
	return n, nil
}

func (r *PgEnrollmentRepository) ListByClass(ctx context.Context, classID uuid.UUID) ([]*model.Enrollment, error) {
	query := `
		SELECT id, student_id, class_id, created_at
		FROM enrollments
		WHERE class_id = $1
		ORDER BY created_at, id
	`
	return r.list(ctx, "list enrollments by class", query, classID)
}

func (r *PgEnrollmentRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*model.Enrollment, error) {
	query := `
		SELECT e.id, e.student_id, e.class_id, e.created_at
		FROM enrollments e
		JOIN class_slots c ON c.id = e.class_id
		WHERE e.student_id = $1
		ORDER BY c.day_of_week, c.start_minute, e.id
	`
	return r.list(ctx, "list enrollments by student", query, studentID)
}

func (r *PgEnrollmentRepository) ListByClasses(ctx context.Context, classIDs []uuid.UUID) ([]*model.Enrollment, error) {
	if len(classIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, student_id, class_id, created_at
		FROM enrollments
		WHERE class_id = ANY($1)
		ORDER BY created_at, id
	`
	return r.list(ctx, "list enrollments by classes", query, classIDs)
}

func (r *PgEnrollmentRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.Enrollment, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var enrollments []*model.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return enrollments, nil
}

func scanEnrollment(row pgx.Row) (*model.Enrollment, error) {
	var e model.Enrollment
	if err := row.Scan(&e.ID, &e.StudentID, &e.ClassID, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
