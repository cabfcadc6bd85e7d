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

type enrollmentRepo struct {
	st *state
}

func (r *enrollmentRepo) Create(_ context.Context, e *model.Enrollment) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if _, ok := r.st.students[e.StudentID]; !ok {
		return fmt.Errorf("create enrollment: %w", repository.ErrForeignKey)
	}
	if _, ok := r.st.classes[e.ClassID]; !ok {
		return fmt.Errorf("create enrollment: %w", repository.ErrForeignKey)
	}
	for _, other := range r.st.enrollments {
		if other.ID == e.ID || (other.StudentID == e.StudentID && other.ClassID == e.ClassID) {
			return fmt.Errorf("create enrollment: %w", repository.ErrDuplicate)
		}
	}

	e.CreatedAt = time.Now().UTC()
	stored := *e
	stored.Student, stored.Class = nil, nil
	r.st.enrollments[e.ID] = stored
	return nil
}

func (r *enrollmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.st.enrollments[id]; !ok {
		return repository.ErrNotAffected
	}
	delete(r.st.enrollments, id)
	return nil
}

func (r *enrollmentRepo) DeleteByClass(_ context.Context, classID uuid.UUID) (int64, error) {
	var n int64
	for id, e := range r.st.enrollments {
		if e.ClassID == classID {
			delete(r.st.enrollments, id)
			n++
		}
	}
	return n, nil
}

func (r *enrollmentRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Enrollment, error) {
	e, ok := r.st.enrollments[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r *enrollmentRepo) Exists(_ context.Context, studentID, classID uuid.UUID) (bool, error) {
	for _, e := range r.st.enrollments {
		if e.StudentID == studentID && e.ClassID == classID {
			return true, nil
		}
	}
	return false, nil
}

func (r *enrollmentRepo) CountByClass(_ context.Context, classID uuid.UUID) (int, error) {
	n := 0
	for _, e := range r.st.enrollments {
		if e.ClassID == classID {
			n++
		}
	}
	return n, nil
}

func (r *enrollmentRepo) ListByClass(_ context.Context, classID uuid.UUID) ([]*model.Enrollment, error) {
	return r.filter(func(e *model.Enrollment) bool { return e.ClassID == classID }), nil
}

func (r *enrollmentRepo) ListByStudent(_ context.Context, studentID uuid.UUID) ([]*model.Enrollment, error) {
	out := r.filter(func(e *model.Enrollment) bool { return e.StudentID == studentID })
	slices.SortStableFunc(out, func(a, b *model.Enrollment) int {
		ca, cb := r.st.classes[a.ClassID], r.st.classes[b.ClassID]
		return cmp.Or(
			cmp.Compare(ca.DayOfWeek, cb.DayOfWeek),
			cmp.Compare(ca.StartTime, cb.StartTime),
		)
	})
	return out, nil
}

func (r *enrollmentRepo) ListByClasses(_ context.Context, classIDs []uuid.UUID) ([]*model.Enrollment, error) {
	if len(classIDs) == 0 {
		return nil, nil
	}
	return r.filter(func(e *model.Enrollment) bool { return slices.Contains(classIDs, e.ClassID) }), nil
}

func (r *enrollmentRepo) filter(keep func(*model.Enrollment) bool) []*model.Enrollment {
	var out []*model.Enrollment
	for _, e := range r.st.enrollments {
		if keep(&e) {
			out = append(out, &e)
		}
	}
	slices.SortFunc(out, func(a, b *model.Enrollment) int {
		return cmp.Or(
			a.CreatedAt.Compare(b.CreatedAt),
			cmp.Compare(a.ID.String(), b.ID.String()),
		)
	})
	return out
}
