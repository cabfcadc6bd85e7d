package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ishita-lives/schedulr/internal/model"
	"github.com/ishita-lives/schedulr/internal/repository"
)

// ChangeService runs the schedule-change request workflow. Requests only move
// from PENDING to a terminal status and are never deleted. Approving a request
// records the decision; it does not move the enrollment.
type ChangeService struct {
	tx     repository.TxManager
	logger *zap.Logger
	loc    *time.Location
	now    func() time.Time
}

func NewChangeService(tx repository.TxManager, loc *time.Location, logger *zap.Logger) *ChangeService {
	if loc == nil {
		loc = time.UTC
	}
	return &ChangeService{
		tx:     tx,
		logger: logger,
		loc:    loc,
		now:    time.Now,
	}
}

// ChangeNotice carries what a caller needs to tell the guardian about a decision.
type ChangeNotice struct {
	Request  *model.ChangeRequest
	Student  *model.Student
	Guardian *model.Guardian
	Class    *model.ClassSlot
	Teacher  *model.Teacher
}

// RequestChange files a PENDING request to attend at a different time on one date.
func (s *ChangeService) RequestChange(ctx context.Context, actor model.Actor, in ChangeInput) (*model.ChangeRequest, error) {
	if err := requireKnownRole(actor, "request schedule changes"); err != nil {
		return nil, err
	}

	if err := validateStruct(in); err != nil {
		return nil, err
	}

	newStart, _ := model.ParseClock(in.NewStartTime)
	newEnd, _ := model.ParseClock(in.NewEndTime)
	if newEnd <= newStart {
		return nil, &ValidationError{Field: "new_end_time", Reason: "end time must be after start time"}
	}

	date := civilDate(in.RequestedDate, s.loc)
	if date.Before(civilDate(s.now().In(s.loc), s.loc)) {
		return nil, &ValidationError{Field: "requested_date", Reason: "date is in the past"}
	}

	var req *model.ChangeRequest
	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		enrollment, err := repos.Enrollments.GetByID(ctx, in.EnrollmentID)
		if err != nil {
			return err
		}
		if enrollment == nil {
			return &NotFoundError{Entity: "enrollment", ID: in.EnrollmentID}
		}

		student, err := loadStudent(ctx, repos, enrollment.StudentID)
		if err != nil {
			return err
		}
		if !canActForStudent(actor, student) {
			return &ForbiddenError{Action: "request a change for this student"}
		}

		class, err := repos.Classes.GetByID(ctx, enrollment.ClassID)
		if err != nil {
			return err
		}
		if class == nil {
			return &NotFoundError{Entity: "class", ID: enrollment.ClassID}
		}

		req = &model.ChangeRequest{
			EnrollmentID:  enrollment.ID,
			ClassID:       class.ID,
			StudentID:     student.ID,
			RequestedDate: date,
			OldStart:      class.StartTime,
			OldEnd:        class.EndTime,
			NewStart:      newStart,
			NewEnd:        newEnd,
			Reason:        strings.TrimSpace(in.Reason),
			Status:        model.ChangeStatusPending,
			RequestedBy:   actor.ID,
		}
		return repos.Changes.Create(ctx, req)
	})
	if err != nil {
		return nil, logFailure(s.logger, "request change", err)
	}

	s.logger.Info("Change requested",
		zap.String("request_id", req.ID.String()),
		zap.String("enrollment_id", req.EnrollmentID.String()),
		zap.String("date", req.RequestedDate.Format(time.DateOnly)),
		zap.String("new_start", req.NewStart.String()),
		zap.String("new_end", req.NewEnd.String()),
	)

	return req, nil
}

// Decide approves or rejects a pending request. Only admins and the teacher
// who owns the request's class may decide.
func (s *ChangeService) Decide(ctx context.Context, actor model.Actor, requestID uuid.UUID, decision model.ChangeStatus) (*ChangeNotice, error) {
	if decision != model.ChangeStatusApproved && decision != model.ChangeStatusRejected {
		return nil, &ValidationError{Field: "decision", Reason: "must be APPROVED or REJECTED"}
	}
	if err := requireKnownRole(actor, "decide change requests"); err != nil {
		return nil, err
	}

	notice := &ChangeNotice{}
	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		req, err := repos.Changes.LockByID(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return &NotFoundError{Entity: "change request", ID: requestID}
		}
		if !req.IsPending() {
			return &InvalidStateError{RequestID: requestID, Status: req.Status}
		}

		class, err := repos.Classes.GetByID(ctx, req.ClassID)
		if err != nil {
			return err
		}
		if !canDecide(actor, class) {
			return &ForbiddenError{Action: "decide this change request"}
		}

		at := s.now().UTC()
		ok, err := repos.Changes.Transition(ctx, requestID, decision, actor.ID, at)
		if err != nil {
			return err
		}
		if !ok {
			current, err := repos.Changes.GetByID(ctx, requestID)
			if err != nil {
				return err
			}
			status := req.Status
			if current != nil {
				status = current.Status
			}
			return &InvalidStateError{RequestID: requestID, Status: status}
		}

		req.Status = decision
		req.DecidedBy = &actor.ID
		req.DecidedAt = &at
		notice.Request = req
		notice.Class = class

		return fillNotice(ctx, repos, notice)
	})
	if err != nil {
		return nil, logFailure(s.logger, "decide change", err)
	}

	s.logger.Info("Change request decided",
		zap.String("request_id", requestID.String()),
		zap.String("status", string(decision)),
		zap.String("actor_id", actor.ID.String()),
	)

	return notice, nil
}

// Cancel withdraws a pending request. Only the requester or an admin may cancel.
func (s *ChangeService) Cancel(ctx context.Context, actor model.Actor, requestID uuid.UUID) (*model.ChangeRequest, error) {
	if err := requireKnownRole(actor, "cancel change requests"); err != nil {
		return nil, err
	}

	var req *model.ChangeRequest
	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		var err error
		req, err = repos.Changes.LockByID(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return &NotFoundError{Entity: "change request", ID: requestID}
		}
		if !actor.IsAdmin() && req.RequestedBy != actor.ID {
			return &ForbiddenError{Action: "cancel this change request"}
		}
		if !req.IsPending() {
			return &InvalidStateError{RequestID: requestID, Status: req.Status}
		}

		at := s.now().UTC()
		ok, err := repos.Changes.Transition(ctx, requestID, model.ChangeStatusCancelled, actor.ID, at)
		if err != nil {
			return err
		}
		if !ok {
			return &InvalidStateError{RequestID: requestID, Status: req.Status}
		}

		req.Status = model.ChangeStatusCancelled
		req.DecidedBy = &actor.ID
		req.DecidedAt = &at
		return nil
	})
	if err != nil {
		return nil, logFailure(s.logger, "cancel change", err)
	}

	s.logger.Info("Change request cancelled",
		zap.String("request_id", requestID.String()),
		zap.String("actor_id", actor.ID.String()),
	)

	return req, nil
}

// ListRequests returns requests visible to the actor, newest first. An empty
// status lists every status.
func (s *ChangeService) ListRequests(ctx context.Context, actor model.Actor, status model.ChangeStatus) ([]*model.ChangeRequest, error) {
	filter, err := requestFilter(actor, status)
	if err != nil {
		return nil, err
	}

	var reqs []*model.ChangeRequest
	err = s.tx.ReadOnly(ctx, func(ctx context.Context, repos repository.Repos) error {
		var err error
		reqs, err = repos.Changes.List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list change requests: %w", err)
	}
	return reqs, nil
}

// Notice rebuilds the notification data for an existing request.
func (s *ChangeService) Notice(ctx context.Context, requestID uuid.UUID) (*ChangeNotice, error) {
	notice := &ChangeNotice{}
	err := s.tx.ReadOnly(ctx, func(ctx context.Context, repos repository.Repos) error {
		req, err := repos.Changes.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return &NotFoundError{Entity: "change request", ID: requestID}
		}
		notice.Request = req

		if notice.Class, err = repos.Classes.GetByID(ctx, req.ClassID); err != nil {
			return err
		}
		return fillNotice(ctx, repos, notice)
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("change notice: %w", err)
	}
	return notice, nil
}

func requestFilter(actor model.Actor, status model.ChangeStatus) (repository.ChangeRequestFilter, error) {
	if status != "" && !status.Valid() {
		return repository.ChangeRequestFilter{}, &ValidationError{Field: "status", Reason: "unknown status"}
	}

	filter := repository.ChangeRequestFilter{Status: status}
	switch actor.Role {
	case model.RoleAdmin:
	case model.RoleTeacher:
		filter.TeacherID = actor.ID
	case model.RoleGuardian:
		filter.GuardianID = actor.ID
	default:
		return filter, &ForbiddenError{Action: "view change requests"}
	}
	return filter, nil
}

// fillNotice loads the people attached to notice.Request. The class may
// already be gone, so Class and Teacher can stay nil.
func fillNotice(ctx context.Context, repos repository.Repos, notice *ChangeNotice) error {
	var err error
	if notice.Student, err = repos.Roster.GetStudent(ctx, notice.Request.StudentID); err != nil {
		return err
	}
	if notice.Student != nil {
		if notice.Guardian, err = repos.Roster.GetGuardian(ctx, notice.Student.GuardianID); err != nil {
			return err
		}
	}
	if notice.Class != nil {
		if notice.Teacher, err = repos.Roster.GetTeacher(ctx, notice.Class.TeacherID); err != nil {
			return err
		}
	}
	return nil
}

// civilDate keeps the calendar date of t as written and places it at
// midnight in loc.
func civilDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
