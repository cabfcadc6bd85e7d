package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ishita-lives/schedulr/internal/model"
	"github.com/ishita-lives/schedulr/internal/repository/base"
)

// PgRosterRepository reads students, guardians and teachers.
type PgRosterRepository struct {
	*base.Repository
}

func NewRosterRepository(q Querier) *PgRosterRepository {
	return &PgRosterRepository{Repository: base.NewRepository(q)}
}

func (r *PgRosterRepository) GetStudent(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	query := `SELECT id, name, grade, guardian_id FROM students WHERE id = $1`

	var s model.Student
	err := r.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.Grade, &s.GuardianID)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get student: %w", err)
	}

	return &s, nil
}

func (r *PgRosterRepository) GetStudents(ctx context.Context, ids []uuid.UUID) ([]*model.Student, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT id, name, grade, guardian_id FROM students WHERE id = ANY($1) ORDER BY name, id`
	return r.students(ctx, "get students", query, ids)
}

func (r *PgRosterRepository) ListStudentsByGuardian(ctx context.Context, guardianID uuid.UUID) ([]*model.Student, error) {
	query := `SELECT id, name, grade, guardian_id FROM students WHERE guardian_id = $1 ORDER BY name, id`
	return r.students(ctx, "list students by guardian", query, guardianID)
}

func (r *PgRosterRepository) CountStudents(ctx context.Context) (int, error) {
	n, err := r.Count(ctx, `SELECT COUNT(*) FROM students`)
	if err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return n, nil
}

func (r *PgRosterRepository) GetGuardian(ctx context.Context, id uuid.UUID) (*model.Guardian, error) {
	query := `SELECT id, name, email, phone, telegram_id FROM guardians WHERE id = $1`

	var g model.Guardian
	err := r.QueryRow(ctx, query, id).Scan(&g.ID, &g.Name, &g.Email, &g.Phone, &g.TelegramID)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get guardian: %w", err)
	}

	return &g, nil
}

func (r *PgRosterRepository) GetGuardians(ctx context.Context, ids []uuid.UUID) ([]*model.Guardian, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT id, name, email, phone, telegram_id FROM guardians WHERE id = ANY($1) ORDER BY name, id`

	rows, err := r.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get guardians: %w", err)
	}
	defer rows.Close()

	var guardians []*model.Guardian
	for rows.Next() {
		var g model.Guardian
		if err := rows.Scan(&g.ID, &g.Name, &g.Email, &g.Phone, &g.TelegramID); err != nil {
			return nil, fmt.Errorf("scan guardian: %w", err)
		}
		guardians = append(guardians, &g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate guardians: %w", err)
	}

	return guardians, nil
}

func (r *PgRosterRepository) GetTeacher(ctx context.Context, id uuid.UUID) (*model.Teacher, error) {
	query := `SELECT id, name, telegram_id FROM teachers WHERE id = $1`

	var t model.Teacher
	err := r.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.TelegramID)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get teacher: %w", err)
	}

	return &t, nil
}

func (r *PgRosterRepository) GetTeachers(ctx context.Context, ids []uuid.UUID) ([]*model.Teacher, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT id, name, telegram_id FROM teachers WHERE id = ANY($1) ORDER BY name, id`

	rows, err := r.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get teachers: %w", err)
	}
	defer rows.Close()

	var teachers []*model.Teacher
	for rows.Next() {
		var t model.Teacher
		if err := rows.Scan(&t.ID, &t.Name, &t.TelegramID); err != nil {
			return nil, fmt.Errorf("scan teacher: %w", err)
		}
		teachers = append(teachers, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate teachers: %w", err)
	}

	return teachers, nil
}

func (r *PgRosterRepository) students(ctx context.Context, op, query string, args ...any) ([]*model.Student, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var students []*model.Student
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(&s.ID, &s.Name, &s.Grade, &s.GuardianID); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return students, nil
}
