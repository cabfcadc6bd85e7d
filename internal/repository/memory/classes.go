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

type classRepo struct {
	st *state
}

func (r *classRepo) Create(_ context.Context, slot *model.ClassSlot) error {
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	if _, ok := r.st.classes[slot.ID]; ok {
		return fmt.Errorf("create class slot: %w", repository.ErrDuplicate)
	}
	if _, ok := r.st.teachers[slot.TeacherID]; !ok {
		return fmt.Errorf("create class slot: %w", repository.ErrForeignKey)
	}
	if r.overlaps(slot) {
		return fmt.Errorf("create class slot: %w", repository.ErrOverlap)
	}

	now := time.Now().UTC()
	slot.CreatedAt, slot.UpdatedAt = now, now
	r.st.classes[slot.ID] = *slot
	return nil
}

func (r *classRepo) Update(_ context.Context, slot *model.ClassSlot) error {
	old, ok := r.st.classes[slot.ID]
	if !ok {
		return repository.ErrNotAffected
	}
	if _, ok := r.st.teachers[slot.TeacherID]; !ok {
		return fmt.Errorf("update class slot: %w", repository.ErrForeignKey)
	}
	if r.overlaps(slot) {
		return fmt.Errorf("update class slot: %w", repository.ErrOverlap)
	}

	slot.CreatedAt = old.CreatedAt
	slot.UpdatedAt = time.Now().UTC()
	r.st.classes[slot.ID] = *slot
	return nil
}

// Delete removes the slot and, like ON DELETE CASCADE, its enrollments.
func (r *classRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.st.classes[id]; !ok {
		return repository.ErrNotAffected
	}
	delete(r.st.classes, id)
	for eid, e := range r.st.enrollments {
		if e.ClassID == id {
			delete(r.st.enrollments, eid)
		}
	}
	return nil
}

func (r *classRepo) GetByID(_ context.Context, id uuid.UUID) (*model.ClassSlot, error) {
	slot, ok := r.st.classes[id]
	if !ok {
		return nil, nil
	}
	return &slot, nil
}

// LockByID is GetByID: the store mutex already serialises units of work.
func (r *classRepo) LockByID(ctx context.Context, id uuid.UUID) (*model.ClassSlot, error) {
	return r.GetByID(ctx, id)
}

func (r *classRepo) LockDay(context.Context, int) error {
	return nil
}

func (r *classRepo) ListByDay(_ context.Context, day int) ([]*model.ClassSlot, error) {
	return r.filter(func(c *model.ClassSlot) bool { return c.DayOfWeek == day }), nil
}

func (r *classRepo) List(context.Context) ([]*model.ClassSlot, error) {
	return r.filter(func(*model.ClassSlot) bool { return true }), nil
}

func (r *classRepo) ListByTeacher(_ context.Context, teacherID uuid.UUID) ([]*model.ClassSlot, error) {
	return r.filter(func(c *model.ClassSlot) bool { return c.TeacherID == teacherID }), nil
}

func (r *classRepo) ListByGuardian(_ context.Context, guardianID uuid.UUID) ([]*model.ClassSlot, error) {
	visible := make(map[uuid.UUID]bool)
	for _, e := range r.st.enrollments {
		if s, ok := r.st.students[e.StudentID]; ok && s.GuardianID == guardianID {
			visible[e.ClassID] = true
		}
	}
	return r.filter(func(c *model.ClassSlot) bool { return visible[c.ID] }), nil
}

func (r *classRepo) overlaps(slot *model.ClassSlot) bool {
	for id, other := range r.st.classes {
		if id != slot.ID && model.Overlaps(slot.Interval(), other.Interval()) {
			return true
		}
	}
	return false
}

func (r *classRepo) filter(keep func(*model.ClassSlot) bool) []*model.ClassSlot {
	var out []*model.ClassSlot
	for _, c := range r.st.classes {
		if keep(&c) {
			out = append(out, &c)
		}
	}
	sortClasses(out)
	return out
}

func sortClasses(classes []*model.ClassSlot) {
	slices.SortFunc(classes, func(a, b *model.ClassSlot) int {
		return cmp.Or(
			cmp.Compare(a.DayOfWeek, b.DayOfWeek),
			cmp.Compare(a.StartTime, b.StartTime),
			cmp.Compare(a.ID.String(), b.ID.String()),
		)
	})
}
