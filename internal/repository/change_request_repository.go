package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ishita-lives/schedulr/internal/model"
	"github.com/ishita-lives/schedulr/internal/repository/base"
)

const changeColumns = `r.id, r.enrollment_id, r.class_id, r.student_id, r.requested_date,
	r.old_start_minute, r.old_end_minute, r.new_start_minute, r.new_end_minute,
	r.reason, r.status, r.requested_by, r.decided_by, r.decided_at, r.created_at`

type PgChangeRequestRepository struct {
	*base.Repository
}

func NewChangeRequestRepository(q Querier) *PgChangeRequestRepository {
	return &PgChangeRequestRepository{Repository: base.NewRepository(q)}
}

func (r *PgChangeRequestRepository) Create(ctx context.Context, req *model.ChangeRequest) error {
	query := `
		INSERT INTO schedule_change_requests (
			id, enrollment_id, class_id, student_id, requested_date,
			old_start_minute, old_end_minute, new_start_minute, new_end_minute,
			reason, status, requested_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at
	`

	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}

	err := r.QueryRow(
		ctx, query,
		req.ID,
		req.EnrollmentID,
		req.ClassID,
		req.StudentID,
		req.RequestedDate,
		int(req.OldStart),
		int(req.OldEnd),
		int(req.NewStart),
		int(req.NewEnd),
		req.Reason,
		req.Status,
		req.RequestedBy,
	).Scan(&req.CreatedAt)

	if err != nil {
		return fmt.Errorf("create change request: %w", translate(err))
	}

	return nil
}

func (r *PgChangeRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ChangeRequest, error) {
	return r.getOne(ctx, `SELECT `+changeColumns+` FROM schedule_change_requests r WHERE r.id = $1`, id)
}

func (r *PgChangeRequestRepository) LockByID(ctx context.Context, id uuid.UUID) (*model.ChangeRequest, error) {
	return r.getOne(ctx, `SELECT `+changeColumns+` FROM schedule_change_requests r WHERE r.id = $1 FOR UPDATE`, id)
}

// Transition only touches rows that are still PENDING, so two concurrent
// deciders cannot both succeed.
func (r *PgChangeRequestRepository) Transition(ctx context.Context, id uuid.UUID, status model.ChangeStatus, actorID uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE schedule_change_requests
		SET status = $2, decided_by = $3, decided_at = $4
		WHERE id = $1 AND status = 'PENDING'
	`

	n, err := r.ExecAffected(ctx, query, id, status, actorID, at)
	if err != nil {
		return false, fmt.Errorf("transition change request: %w", err)
	}

	return n == 1, nil
}

func (r *PgChangeRequestRepository) CancelPendingByClass(ctx context.Context, classID, actorID uuid.UUID, at time.Time) (int64, error) {
	query := `
		UPDATE schedule_change_requests
		SET status = 'CANCELLED', decided_by = $2, decided_at = $3
		WHERE class_id = $1 AND status = 'PENDING'
	`

	n, err := r.ExecAffected(ctx, query, classID, actorID, at)
	if err != nil {
		return 0, fmt.Errorf("cancel requests by class: %w", err)
	}

	return n, nil
}

func (r *PgChangeRequestRepository) CancelPendingByEnrollment(ctx context.Context, enrollmentID, actorID uuid.UUID, at time.Time) (int64, error) {
	query := `
		UPDATE schedule_change_requests
		SET status = 'CANCELLED', decided_by = $2, decided_at = $3
		WHERE enrollment_id = $1 AND status = 'PENDING'
	`

	n, err := r.ExecAffected(ctx, query, enrollmentID, actorID, at)
	if err != nil {
		return 0, fmt.Errorf("cancel requests by enrollment: %w", err)
	}

	return n, nil
}

func (r *PgChangeRequestRepository) List(ctx context.Context, filter ChangeRequestFilter) ([]*model.ChangeRequest, error) {
	where, args := filterClause(filter)
	query := `SELECT ` + changeColumns + ` FROM schedule_change_requests r` + where +
		` ORDER BY r.created_at DESC, r.id`

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list change requests: %w", err)
	}
	defer rows.Close()

	var reqs []*model.ChangeRequest
	for rows.Next() {
		req, err := scanChangeRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan change request: %w", err)
		}
		reqs = append(reqs, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list change requests: %w", err)
	}

	return reqs, nil
}

func (r *PgChangeRequestRepository) Count(ctx context.Context, filter ChangeRequestFilter) (int, error) {
	where, args := filterClause(filter)
	n, err := r.Repository.Count(ctx, `SELECT COUNT(*) FROM schedule_change_requests r`+where, args...)
	if err != nil {
		return 0, fmt.Errorf("count change requests: %w", err)
	}
	return n, nil
}

func filterClause(f ChangeRequestFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("r.status = $%d", len(args)))
	}
	if f.TeacherID != uuid.Nil {
		args = append(args, f.TeacherID)
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM class_slots c WHERE c.id = r.class_id AND c.teacher_id = $%d)", len(args)))
	}
	if f.GuardianID != uuid.Nil {
		args = append(args, f.GuardianID)
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM students s WHERE s.id = r.student_id AND s.guardian_id = $%d)", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *PgChangeRequestRepository) getOne(ctx context.Context, query string, id uuid.UUID) (*model.ChangeRequest, error) {
	req, err := scanChangeRequest(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get change request: %w", err)
	}
	return req, nil
}

func scanChangeRequest(row pgx.Row) (*model.ChangeRequest, error) {
	var (
		req                                model.ChangeRequest
		oldStart, oldEnd, newStart, newEnd int
	)
	err := row.Scan(
		&req.ID,
		&req.EnrollmentID,
		&req.ClassID,
		&req.StudentID,
		&req.RequestedDate,
		&oldStart,
		&oldEnd,
		&newStart,
		&newEnd,
		&req.Reason,
		&req.Status,
		&req.RequestedBy,
		&req.DecidedBy,
		&req.DecidedAt,
		&req.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	req.OldStart = model.Clock(oldStart)
	req.OldEnd = model.Clock(oldEnd)
	req.NewStart = model.Clock(newStart)
	req.NewEnd = model.Clock(newEnd)
	return &req, nil
}
