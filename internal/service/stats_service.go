package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ishita-lives/schedulr/internal/model"
	"github.com/ishita-lives/schedulr/internal/repository"
)

// Stats is the dashboard summary for one viewer.
type Stats struct {
	Classes         int `json:"classes"`
	Students        int `json:"students"`
	PendingRequests int `json:"pending_requests"`
}

type StatsService struct {
	tx     repository.TxManager
	logger *zap.Logger
}

func NewStatsService(tx repository.TxManager, logger *zap.Logger) *StatsService {
	return &StatsService{tx: tx, logger: logger}
}

// Stats counts what the actor can see: all data for admins, their classes and
// the students enrolled in them for teachers, their own children for guardians.
func (s *StatsService) Stats(ctx context.Context, actor model.Actor) (*Stats, error) {
	filter, err := requestFilter(actor, model.ChangeStatusPending)
	if err != nil {
		return nil, err
	}

	stats := &Stats{}
	err = s.tx.ReadOnly(ctx, func(ctx context.Context, repos repository.Repos) error {
		classes, err := visibleClasses(ctx, repos, actor)
		if err != nil {
			return err
		}
		stats.Classes = len(classes)

		switch actor.Role {
		case model.RoleAdmin:
			stats.Students, err = repos.Roster.CountStudents(ctx)
		case model.RoleTeacher:
			stats.Students, err = countEnrolledStudents(ctx, repos, classes)
		case model.RoleGuardian:
			var students []*model.Student
			students, err = repos.Roster.ListStudentsByGuardian(ctx, actor.ID)
			stats.Students = len(students)
		}
		if err != nil {
			return err
		}

		stats.PendingRequests, err = repos.Changes.Count(ctx, filter)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}

	return stats, nil
}

func countEnrolledStudents(ctx context.Context, repos repository.Repos, classes []*model.ClassSlot) (int, error) {
	ids := make([]uuid.UUID, len(classes))
	for i, c := range classes {
		ids[i] = c.ID
	}

	enrollments, err := repos.Enrollments.ListByClasses(ctx, ids)
	if err != nil {
		return 0, err
	}

	distinct := make(map[uuid.UUID]struct{}, len(enrollments))
	for _, e := range enrollments {
		distinct[e.StudentID] = struct{}{}
	}
	return len(distinct), nil
}
