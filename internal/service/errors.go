package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ishita-lives/schedulr/internal/model"
)

// Sentinels for errors.Is. Every typed error below matches exactly one.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("time slot conflict")
	ErrCapacity     = errors.New("class is full")
	ErrDuplicate    = errors.New("already enrolled")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidState = errors.New("invalid state")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

type NotFoundError struct {
	Entity string
	ID     uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ConflictError names the existing slot the candidate overlaps. Slot is nil
// when the overlap was caught by the store constraint instead.
type ConflictError struct {
	Slot *model.ClassSlot
}

func (e *ConflictError) Error() string {
	if e.Slot == nil {
		return "overlaps an existing class"
	}
	return fmt.Sprintf("overlaps %s on %s %s-%s",
		e.Slot.Subject, model.WeekdayName(e.Slot.DayOfWeek), e.Slot.StartTime, e.Slot.EndTime)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

type CapacityError struct {
	ClassID  uuid.UUID
	Capacity int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("class %s is full (capacity %d)", e.ClassID, e.Capacity)
}

func (e *CapacityError) Is(target error) bool { return target == ErrCapacity }

type DuplicateError struct {
	StudentID uuid.UUID
	ClassID   uuid.UUID
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("student %s is already enrolled in class %s", e.StudentID, e.ClassID)
}

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

type ForbiddenError struct {
	Action string
}

func (e *ForbiddenError) Error() string {
	return "not allowed to " + e.Action
}

func (e *ForbiddenError) Is(target error) bool { return target == ErrForbidden }

type InvalidStateError struct {
	RequestID uuid.UUID
	Status    model.ChangeStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("change request %s is already %s", e.RequestID, e.Status)
}

func (e *InvalidStateError) Is(target error) bool { return target == ErrInvalidState }

func isDomainError(err error) bool {
	for _, target := range []error{
		ErrValidation, ErrNotFound, ErrConflict, ErrCapacity, ErrDuplicate, ErrForbidden, ErrInvalidState,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// logFailure records a failed operation. Domain errors are returned as is;
// anything else is a storage failure and gets wrapped with the operation name.
func logFailure(logger *zap.Logger, op string, err error) error {
	switch {
	case errors.Is(err, ErrCapacity), errors.Is(err, ErrConflict), errors.Is(err, ErrDuplicate):
		logger.Warn("Operation rejected", zap.String("op", op), zap.Error(err))
		return err
	case isDomainError(err):
		logger.Debug("Operation rejected", zap.String("op", op), zap.Error(err))
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, err)
	}

	logger.Error("Operation failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s: %w", op, err)
}
