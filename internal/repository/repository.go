package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ishita-lives/schedulr/internal/model"
	"github.com/ishita-lives/schedulr/internal/repository/base"
)

// Querier is satisfied by *pgxpool.Pool and pgx.Tx.
type Querier = base.Querier

// Lookups return (nil, nil) when the row does not exist.

type ClassRepository interface {
	Create(ctx context.Context, slot *model.ClassSlot) error
	Update(ctx context.Context, slot *model.ClassSlot) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ClassSlot, error)
	// LockByID reads the slot and holds a row lock until the transaction ends.
	LockByID(ctx context.Context, id uuid.UUID) (*model.ClassSlot, error)
	// LockDay serialises writers that run conflict detection for one day.
	LockDay(ctx context.Context, day int) error
	ListByDay(ctx context.Context, day int) ([]*model.ClassSlot, error)
	List(ctx context.Context) ([]*model.ClassSlot, error)
	ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*model.ClassSlot, error)
	// ListByGuardian returns slots with at least one enrollment of the guardian's students.
	ListByGuardian(ctx context.Context, guardianID uuid.UUID) ([]*model.ClassSlot, error)
}

type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *model.Enrollment) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByClass(ctx context.Context, classID uuid.UUID) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Enrollment, error)
	Exists(ctx context.Context, studentID, classID uuid.UUID) (bool, error)
	CountByClass(ctx context.Context, classID uuid.UUID) (int, error)
	ListByClass(ctx context.Context, classID uuid.UUID) ([]*model.Enrollment, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*model.Enrollment, error)
	ListByClasses(ctx context.Context, classIDs []uuid.UUID) ([]*model.Enrollment, error)
}

// ChangeRequestFilter narrows request listings. Zero fields are ignored.
type ChangeRequestFilter struct {
	Status     model.ChangeStatus
	TeacherID  uuid.UUID // requests on classes owned by this teacher
	GuardianID uuid.UUID // requests for this guardian's students
}

type ChangeRequestRepository interface {
	Create(ctx context.Context, req *model.ChangeRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ChangeRequest, error)
	LockByID(ctx context.Context, id uuid.UUID) (*model.ChangeRequest, error)
	// Transition moves a PENDING request to status and reports whether a row changed.
	Transition(ctx context.Context, id uuid.UUID, status model.ChangeStatus, actorID uuid.UUID, at time.Time) (bool, error)
	CancelPendingByClass(ctx context.Context, classID, actorID uuid.UUID, at time.Time) (int64, error)
	CancelPendingByEnrollment(ctx context.Context, enrollmentID, actorID uuid.UUID, at time.Time) (int64, error)
	List(ctx context.Context, filter ChangeRequestFilter) ([]*model.ChangeRequest, error)
	Count(ctx context.Context, filter ChangeRequestFilter) (int, error)
}

// RosterRepository reads people records maintained outside the scheduler.
type RosterRepository interface {
	GetStudent(ctx context.Context, id uuid.UUID) (*model.Student, error)
	GetStudents(ctx context.Context, ids []uuid.UUID) ([]*model.Student, error)
	ListStudentsByGuardian(ctx context.Context, guardianID uuid.UUID) ([]*model.Student, error)
	CountStudents(ctx context.Context) (int, error)
	GetGuardian(ctx context.Context, id uuid.UUID) (*model.Guardian, error)
	GetGuardians(ctx context.Context, ids []uuid.UUID) ([]*model.Guardian, error)
	GetTeacher(ctx context.Context, id uuid.UUID) (*model.Teacher, error)
	GetTeachers(ctx context.Context, ids []uuid.UUID) ([]*model.Teacher, error)
}

type AccountRepository interface {
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.Account, error)
}

// Repos is the set of repositories bound to one transaction.
type Repos struct {
	Classes     ClassRepository
	Enrollments EnrollmentRepository
	Changes     ChangeRequestRepository
	Roster      RosterRepository
}

// TxManager runs fn atomically: either every write made through repos is
// committed or none is. A non-nil error from fn rolls the transaction back.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error
	ReadOnly(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error
}
