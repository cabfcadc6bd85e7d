package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/ishita-lives/schedulr/internal/model"
	"github.com/ishita-lives/schedulr/internal/repository"
)

type changeRepo struct {
	st *state
}

func (r *changeRepo) Create(_ context.Context, req *model.ChangeRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if _, ok := r.st.changes[req.ID]; ok {
		return fmt.Errorf("create change request: %w", repository.ErrDuplicate)
	}

	req.CreatedAt = time.Now().UTC()
	r.st.changes[req.ID] = *req
	return nil
}

func (r *changeRepo) GetByID(_ context.Context, id uuid.UUID) (*model.ChangeRequest, error) {
	req, ok := r.st.changes[id]
	if !ok {
		return nil, nil
	}
	return &req, nil
}

func (r *changeRepo) LockByID(ctx context.Context, id uuid.UUID) (*model.ChangeRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *changeRepo) Transition(_ context.Context, id uuid.UUID, status model.ChangeStatus, actorID uuid.UUID, at time.Time) (bool, error) {
	req, ok := r.st.changes[id]
	if !ok || req.Status != model.ChangeStatusPending {
		return false, nil
	}
	r.decide(&req, status, actorID, at)
	return true, nil
}

func (r *changeRepo) CancelPendingByClass(_ context.Context, classID, actorID uuid.UUID, at time.Time) (int64, error) {
	return r.cancelWhere(func(req *model.ChangeRequest) bool { return req.ClassID == classID }, actorID, at), nil
}

func (r *changeRepo) CancelPendingByEnrollment(_ context.Context, enrollmentID, actorID uuid.UUID, at time.Time) (int64, error) {
	return r.cancelWhere(func(req *model.ChangeRequest) bool { return req.EnrollmentID == enrollmentID }, actorID, at), nil
}

func (r *changeRepo) List(_ context.Context, filter repository.ChangeRequestFilter) ([]*model.ChangeRequest, error) {
	var out []*model.ChangeRequest
	for _, req := range r.st.changes {
		if r.matches(&req, filter) {
			out = append(out, &req)
		}
	}
	slices.SortFunc(out, func(a, b *model.ChangeRequest) int {
		return cmp.Or(
			b.CreatedAt.Compare(a.CreatedAt),
			cmp.Compare(a.ID.String(), b.ID.String()),
		)
	})
	return out, nil
}

func (r *changeRepo) Count(_ context.Context, filter repository.ChangeRequestFilter) (int, error) {
	n := 0
	for _, req := range r.st.changes {
		if r.matches(&req, filter) {
			n++
		}
	}
	return n, nil
}

func (r *changeRepo) matches(req *model.ChangeRequest, f repository.ChangeRequestFilter) bool {
	if f.Status != "" && req.Status != f.Status {
		return false
	}
	if f.TeacherID != uuid.Nil {
		c, ok := r.st.classes[req.ClassID]
		if !ok || c.TeacherID != f.TeacherID {
			return false
		}
	}
	if f.GuardianID != uuid.Nil {
		s, ok := r.st.students[req.StudentID]
		if !ok || s.GuardianID != f.GuardianID {
			return false
		}
	}
	return true
}

func (r *changeRepo) cancelWhere(match func(*model.ChangeRequest) bool, actorID uuid.UUID, at time.Time) int64 {
	var n int64
	for _, req := range r.st.changes {
		if req.Status == model.ChangeStatusPending && match(&req) {
			r.decide(&req, model.ChangeStatusCancelled, actorID, at)
			n++
		}
	}
	return n
}

func (r *changeRepo) decide(req *model.ChangeRequest, status model.ChangeStatus, actorID uuid.UUID, at time.Time) {
	req.Status = status
	req.DecidedBy = &actorID
	req.DecidedAt = &at
	r.st.changes[req.ID] = *req
}
