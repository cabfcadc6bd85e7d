package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/ishita-lives/schedulr/internal/model"
	"github.com/ishita-lives/schedulr/internal/repository"
)

func requireKnownRole(actor model.Actor, action string) error {
	if !actor.Role.Valid() {
		return &ForbiddenError{Action: action}
	}
	return nil
}

func requireAdmin(actor model.Actor, action string) error {
	if !actor.IsAdmin() {
		return &ForbiddenError{Action: action}
	}
	return nil
}

// canActForStudent reports whether actor is an admin or the student's guardian.
func canActForStudent(actor model.Actor, student *model.Student) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.Role == model.RoleGuardian && student.GuardianID == actor.ID
}

// canDecide reports whether actor is an admin or the teacher owning class.
func canDecide(actor model.Actor, class *model.ClassSlot) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.Role == model.RoleTeacher && class != nil && class.TeacherID == actor.ID
}

// loadStudent returns the student or a NotFoundError.
func loadStudent(ctx context.Context, repos repository.Repos, id uuid.UUID) (*model.Student, error) {
	student, err := repos.Roster.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, &NotFoundError{Entity: "student", ID: id}
	}
	return student, nil
}

// visibleClasses returns the class slots the actor may see, ordered by day and start.
func visibleClasses(ctx context.Context, repos repository.Repos, actor model.Actor) ([]*model.ClassSlot, error) {
	switch actor.Role {
	case model.RoleAdmin:
		return repos.Classes.List(ctx)
	case model.RoleTeacher:
		return repos.Classes.ListByTeacher(ctx, actor.ID)
	case model.RoleGuardian:
		return repos.Classes.ListByGuardian(ctx, actor.ID)
	}
	return nil, &ForbiddenError{Action: "view classes"}
}
