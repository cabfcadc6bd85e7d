package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/ishita-lives/schedulr/internal/model"
)

type rosterRepo struct {
	st *state
}

func (r *rosterRepo) GetStudent(_ context.Context, id uuid.UUID) (*model.Student, error) {
	s, ok := r.st.students[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *rosterRepo) GetStudents(_ context.Context, ids []uuid.UUID) ([]*model.Student, error) {
	var out []*model.Student
	for _, id := range ids {
		if s, ok := r.st.students[id]; ok {
			out = append(out, &s)
		}
	}
	sortStudents(out)
	return out, nil
}

func (r *rosterRepo) ListStudentsByGuardian(_ context.Context, guardianID uuid.UUID) ([]*model.Student, error) {
	var out []*model.Student
	for _, s := range r.st.students {
		if s.GuardianID == guardianID {
			out = append(out, &s)
		}
	}
	sortStudents(out)
	return out, nil
}

func (r *rosterRepo) CountStudents(context.Context) (int, error) {
	return len(r.st.students), nil
}

func (r *rosterRepo) GetGuardian(_ context.Context, id uuid.UUID) (*model.Guardian, error) {
	g, ok := r.st.guardians[id]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (r *rosterRepo) GetGuardians(_ context.Context, ids []uuid.UUID) ([]*model.Guardian, error) {
	var out []*model.Guardian
	for _, id := range ids {
		if g, ok := r.st.guardians[id]; ok {
			out = append(out, &g)
		}
	}
	slices.SortFunc(out, func(a, b *model.Guardian) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func (r *rosterRepo) GetTeacher(_ context.Context, id uuid.UUID) (*model.Teacher, error) {
	t, ok := r.st.teachers[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *rosterRepo) GetTeachers(_ context.Context, ids []uuid.UUID) ([]*model.Teacher, error) {
	var out []*model.Teacher
	for _, id := range ids {
		if t, ok := r.st.teachers[id]; ok {
			out = append(out, &t)
		}
	}
	slices.SortFunc(out, func(a, b *model.Teacher) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func sortStudents(students []*model.Student) {
	slices.SortFunc(students, func(a, b *model.Student) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID.String(), b.ID.String()))
	})
}
