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

// CatalogService owns class slots and keeps same-day slots from overlapping.
type CatalogService struct {
	tx     repository.TxManager
	logger *zap.Logger
	now    func() time.Time
}

func NewCatalogService(tx repository.TxManager, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		tx:     tx,
		logger: logger,
		now:    time.Now,
	}
}

// DeleteResult reports what a class deletion removed.
type DeleteResult struct {
	Class              *model.ClassSlot
	RemovedEnrollments int64
	CancelledRequests  int64
}

// CreateClass validates the input and inserts a slot unless it overlaps an
// existing slot on the same day.
func (s *CatalogService) CreateClass(ctx context.Context, actor model.Actor, in ClassInput) (*model.ClassSlot, error) {
	if err := requireAdmin(actor, "create class"); err != nil {
		return nil, err
	}

	slot, err := in.toSlot()
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		if err := checkTeacher(ctx, repos, slot.TeacherID); err != nil {
			return err
		}

		if err := repos.Classes.LockDay(ctx, slot.DayOfWeek); err != nil {
			return err
		}

		if err := checkConflict(ctx, repos, slot, nil); err != nil {
			return err
		}

		return repos.Classes.Create(ctx, slot)
	})
	if err != nil {
		return nil, s.fail("create class", err)
	}

	s.logger.Info("Class created",
		zap.String("class_id", slot.ID.String()),
		zap.String("subject", slot.Subject),
		zap.String("day", model.WeekdayName(slot.DayOfWeek)),
		zap.String("start", slot.StartTime.String()),
		zap.String("end", slot.EndTime.String()),
	)

	return slot, nil
}

// UpdateClass replaces every mutable field of the slot. The slot's own
// current interval is ignored during conflict detection.
func (s *CatalogService) UpdateClass(ctx context.Context, actor model.Actor, id uuid.UUID, in ClassInput) (*model.ClassSlot, error) {
	if err := requireAdmin(actor, "update class"); err != nil {
		return nil, err
	}

	slot, err := in.toSlot()
	if err != nil {
		return nil, err
	}
	slot.ID = id

	err = s.tx.WithTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		current, err := repos.Classes.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return &NotFoundError{Entity: "class", ID: id}
		}

		if err := checkTeacher(ctx, repos, slot.TeacherID); err != nil {
			return err
		}

		// lower day first so two movers never wait on each other
		for _, day := range lockOrder(current.DayOfWeek, slot.DayOfWeek) {
			if err := repos.Classes.LockDay(ctx, day); err != nil {
				return err
			}
		}

		if err := checkConflict(ctx, repos, slot, &id); err != nil {
			return err
		}

		enrolled, err := repos.Enrollments.CountByClass(ctx, id)
		if err != nil {
			return err
		}
		if slot.Capacity < enrolled {
			return &ValidationError{
				Field:  "capacity",
				Reason: fmt.Sprintf("capacity cannot drop below the %d enrolled students", enrolled),
			}
		}

		slot.CreatedAt = current.CreatedAt
		return repos.Classes.Update(ctx, slot)
	})
	if err != nil {
		return nil, s.fail("update class", err)
	}

	s.logger.Info("Class updated",
		zap.String("class_id", id.String()),
		zap.String("day", model.WeekdayName(slot.DayOfWeek)),
		zap.String("start", slot.StartTime.String()),
		zap.String("end", slot.EndTime.String()),
		zap.Int("capacity", slot.Capacity),
	)

	return slot, nil
}

// DeleteClass removes the slot together with its enrollments. Pending change
// requests on the class are cancelled, not deleted.
func (s *CatalogService) DeleteClass(ctx context.Context, actor model.Actor, id uuid.UUID) (*DeleteResult, error) {
	if err := requireAdmin(actor, "delete class"); err != nil {
		return nil, err
	}

	res := &DeleteResult{}
	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		class, err := repos.Classes.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if class == nil {
			return &NotFoundError{Entity: "class", ID: id}
		}
		res.Class = class

		res.CancelledRequests, err = repos.Changes.CancelPendingByClass(ctx, id, actor.ID, s.now().UTC())
		if err != nil {
			return err
		}

		res.RemovedEnrollments, err = repos.Enrollments.DeleteByClass(ctx, id)
		if err != nil {
			return err
		}

		return repos.Classes.Delete(ctx, id)
	})
	if err != nil {
		return nil, s.fail("delete class", err)
	}

	s.logger.Info("Class deleted",
		zap.String("class_id", id.String()),
		zap.Int64("removed_enrollments", res.RemovedEnrollments),
		zap.Int64("cancelled_requests", res.CancelledRequests),
	)

	return res, nil
}

func (s *CatalogService) GetClass(ctx context.Context, id uuid.UUID) (*model.ClassSlot, error) {
	var class *model.ClassSlot
	err := s.tx.ReadOnly(ctx, func(ctx context.Context, repos repository.Repos) error {
		var err error
		class, err = repos.Classes.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get class: %w", err)
	}
	if class == nil {
		return nil, &NotFoundError{Entity: "class", ID: id}
	}
	return class, nil
}

// ListClasses returns the classes visible to the actor: everything for
// admins, owned classes for teachers, and classes attended by their students
// for guardians.
func (s *CatalogService) ListClasses(ctx context.Context, actor model.Actor) ([]*model.ClassSlot, error) {
	if err := requireKnownRole(actor, "view classes"); err != nil {
		return nil, err
	}

	var classes []*model.ClassSlot
	err := s.tx.ReadOnly(ctx, func(ctx context.Context, repos repository.Repos) error {
		var err error
		classes, err = visibleClasses(ctx, repos, actor)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// fail logs the outcome and wraps storage errors. Domain errors pass through.
func (s *CatalogService) fail(op string, err error) error {
	if errors.Is(err, repository.ErrOverlap) {
		err = &ConflictError{}
	}
	return logFailure(s.logger, op, err)
}

func checkTeacher(ctx context.Context, repos repository.Repos, id uuid.UUID) error {
	teacher, err := repos.Roster.GetTeacher(ctx, id)
	if err != nil {
		return err
	}
	if teacher == nil {
		return &ValidationError{Field: "teacher_id", Reason: "unknown teacher"}
	}
	return nil
}

func checkConflict(ctx context.Context, repos repository.Repos, slot *model.ClassSlot, excludeID *uuid.UUID) error {
	sameDay, err := repos.Classes.ListByDay(ctx, slot.DayOfWeek)
	if err != nil {
		return err
	}
	if other := model.FindConflict(slot.Interval(), sameDay, excludeID); other != nil {
		return &ConflictError{Slot: other}
	}
	return nil
}

func lockOrder(a, b int) []int {
	switch {
	case a == b:
		return []int{a}
	case a < b:
		return []int{a, b}
	default:
		return []int{b, a}
	}
}
