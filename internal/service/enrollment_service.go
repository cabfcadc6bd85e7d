package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ishita-lives/schedulr/internal/model"
	"github.com/ishita-lives/schedulr/internal/repository"
)

// EnrollmentService is the ledger of which students attend which classes.
type EnrollmentService struct {
	tx     repository.TxManager
	logger *zap.Logger
	now    func() time.Time
}

func NewEnrollmentService(tx repository.TxManager, logger *zap.Logger) *EnrollmentService {
	return &EnrollmentService{
		tx:     tx,
		logger: logger,
		now:    time.Now,
	}
}

// Enroll adds the student to the class. The class row stays locked from the
// capacity check until the insert commits, so concurrent enrolls cannot
// overfill it.
func (s *EnrollmentService) Enroll(ctx context.Context, actor model.Actor, studentID, classID uuid.UUID) (*model.Enrollment, error) {
	if err := requireKnownRole(actor, "enroll students"); err != nil {
		return nil, err
	}

	var enrollment *model.Enrollment
	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		student, err := loadStudent(ctx, repos, studentID)
		if err != nil {
			return err
		}
		if !canActForStudent(actor, student) {
			return &ForbiddenError{Action: "enroll this student"}
		}

		class, err := repos.Classes.LockByID(ctx, classID)
		if err != nil {
			return err
		}
		if class == nil {
			return &NotFoundError{Entity: "class", ID: classID}
		}

		count, err := repos.Enrollments.CountByClass(ctx, classID)
		if err != nil {
			return err
		}
		if count >= class.Capacity {
			return &CapacityError{ClassID: classID, Capacity: class.Capacity}
		}

		exists, err := repos.Enrollments.Exists(ctx, studentID, classID)
		if err != nil {
			return err
		}
		if exists {
			return &DuplicateError{StudentID: studentID, ClassID: classID}
		}

		enrollment = &model.Enrollment{StudentID: studentID, ClassID: classID}
		if err := repos.Enrollments.Create(ctx, enrollment); err != nil {
			return err
		}

		enrollment.Student = student
		enrollment.Class = class
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			err = &DuplicateError{StudentID: studentID, ClassID: classID}
		}
		return nil, logFailure(s.logger, "enroll", err)
	}

	s.logger.Info("Student enrolled",
		zap.String("enrollment_id", enrollment.ID.String()),
		zap.String("student_id", studentID.String()),
		zap.String("class_id", classID.String()),
		zap.String("actor_id", actor.ID.String()),
	)

	return enrollment, nil
}

// Unenroll deletes the enrollment. Its pending change requests are cancelled
// and kept as history.
func (s *EnrollmentService) Unenroll(ctx context.Context, actor model.Actor, enrollmentID uuid.UUID) error {
	if err := requireKnownRole(actor, "unenroll students"); err != nil {
		return err
	}

	var cancelled int64
	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		enrollment, err := repos.Enrollments.GetByID(ctx, enrollmentID)
		if err != nil {
			return err
		}
		if enrollment == nil {
			return &NotFoundError{Entity: "enrollment", ID: enrollmentID}
		}

		student, err := loadStudent(ctx, repos, enrollment.StudentID)
		if err != nil {
			return err
		}
		if !canActForStudent(actor, student) {
			return &ForbiddenError{Action: "unenroll this student"}
		}

		cancelled, err = repos.Changes.CancelPendingByEnrollment(ctx, enrollmentID, actor.ID, s.now().UTC())
		if err != nil {
			return err
		}

		return repos.Enrollments.Delete(ctx, enrollmentID)
	})
	if err != nil {
		return logFailure(s.logger, "unenroll", err)
	}

	s.logger.Info("Student unenrolled",
		zap.String("enrollment_id", enrollmentID.String()),
		zap.Int64("cancelled_requests", cancelled),
		zap.String("actor_id", actor.ID.String()),
	)

	return nil
}

func (s *EnrollmentService) CountForClass(ctx context.Context, classID uuid.UUID) (int, error) {
	var n int
	err := s.tx.ReadOnly(ctx, func(ctx context.Context, repos repository.Repos) error {
		var err error
		n, err = repos.Enrollments.CountByClass(ctx, classID)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("count enrollments: %w", err)
	}
	return n, nil
}

// EnrollmentsForStudent returns the student's enrollments with Class filled,
// ordered by day and start time.
func (s *EnrollmentService) EnrollmentsForStudent(ctx context.Context, studentID uuid.UUID) ([]*model.Enrollment, error) {
	var enrollments []*model.Enrollment
	err := s.tx.ReadOnly(ctx, func(ctx context.Context, repos repository.Repos) error {
		var err error
		enrollments, err = repos.Enrollments.ListByStudent(ctx, studentID)
		if err != nil {
			return err
		}
		for _, e := range enrollments {
			if e.Class, err = repos.Classes.GetByID(ctx, e.ClassID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enrollments for student: %w", err)
	}
	return enrollments, nil
}

// EnrollmentsForClass returns the class roster with Student filled.
func (s *EnrollmentService) EnrollmentsForClass(ctx context.Context, classID uuid.UUID) ([]*model.Enrollment, error) {
	var enrollments []*model.Enrollment
	err := s.tx.ReadOnly(ctx, func(ctx context.Context, repos repository.Repos) error {
		var err error
		enrollments, err = repos.Enrollments.ListByClass(ctx, classID)
		if err != nil {
			return err
		}
		return attachStudents(ctx, repos, enrollments)
	})
	if err != nil {
		return nil, fmt.Errorf("enrollments for class: %w", err)
	}
	return enrollments, nil
}

// EnrollmentsForActor returns the enrollments whose classes the actor can see,
// restricted to their own students for guardians. Class and Student are filled.
func (s *EnrollmentService) EnrollmentsForActor(ctx context.Context, actor model.Actor) ([]*model.Enrollment, error) {
	if err := requireKnownRole(actor, "view enrollments"); err != nil {
		return nil, err
	}

	var out []*model.Enrollment
	err := s.tx.ReadOnly(ctx, func(ctx context.Context, repos repository.Repos) error {
		classes, err := visibleClasses(ctx, repos, actor)
		if err != nil {
			return err
		}

		byID := make(map[uuid.UUID]*model.ClassSlot, len(classes))
		ids := make([]uuid.UUID, 0, len(classes))
		for _, c := range classes {
			byID[c.ID] = c
			ids = append(ids, c.ID)
		}

		enrollments, err := repos.Enrollments.ListByClasses(ctx, ids)
		if err != nil {
			return err
		}
		if err := attachStudents(ctx, repos, enrollments); err != nil {
			return err
		}

		for _, e := range enrollments {
			if actor.Role == model.RoleGuardian && (e.Student == nil || e.Student.GuardianID != actor.ID) {
				continue
			}
			e.Class = byID[e.ClassID]
			out = append(out, e)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enrollments for actor: %w", err)
	}
	return out, nil
}

func attachStudents(ctx context.Context, repos repository.Repos, enrollments []*model.Enrollment) error {
	if len(enrollments) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(enrollments))
	seen := make(map[uuid.UUID]bool)
	for _, e := range enrollments {
		if !seen[e.StudentID] {
			seen[e.StudentID] = true
			ids = append(ids, e.StudentID)
		}
	}

	students, err := repos.Roster.GetStudents(ctx, ids)
	if err != nil {
		return err
	}

	byID := make(map[uuid.UUID]*model.Student, len(students))
	for _, st := range students {
		byID[st.ID] = st
	}
	for _, e := range enrollments {
		e.Student = byID[e.StudentID]
	}
	return nil
}
