package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ishita-lives/schedulr/internal/model"
	"github.com/ishita-lives/schedulr/internal/repository"
)

// GridService builds the read-only weekly timetable.
type GridService struct {
	tx     repository.TxManager
	logger *zap.Logger
}

func NewGridService(tx repository.TxManager, logger *zap.Logger) *GridService {
	return &GridService{tx: tx, logger: logger}
}

// BuildWeeklyGrid lays the actor's visible classes out by day and time.
// Rows are the distinct start and end times of those classes in ascending
// order; a class occupies the cell of its day in the row equal to its start.
// Guardians only see their own students inside a cell and never see guardian
// names.
func (s *GridService) BuildWeeklyGrid(ctx context.Context, actor model.Actor) (*model.WeeklyGrid, error) {
	if err := requireKnownRole(actor, "view the schedule"); err != nil {
		return nil, err
	}

	grid := &model.WeeklyGrid{ViewerRole: actor.Role}
	err := s.tx.ReadOnly(ctx, func(ctx context.Context, repos repository.Repos) error {
		classes, err := visibleClasses(ctx, repos, actor)
		if err != nil {
			return err
		}
		if len(classes) == 0 {
			return nil
		}

		ids := make([]uuid.UUID, len(classes))
		teacherIDs := make([]uuid.UUID, 0, len(classes))
		for i, c := range classes {
			ids[i] = c.ID
			teacherIDs = append(teacherIDs, c.TeacherID)
		}

		enrollments, err := repos.Enrollments.ListByClasses(ctx, ids)
		if err != nil {
			return err
		}
		if err := attachStudents(ctx, repos, enrollments); err != nil {
			return err
		}

		teachers, err := repos.Roster.GetTeachers(ctx, uniqueIDs(teacherIDs))
		if err != nil {
			return err
		}
		teacherNames := make(map[uuid.UUID]string, len(teachers))
		for _, t := range teachers {
			teacherNames[t.ID] = t.Name
		}

		guardianNames, err := s.guardianNames(ctx, repos, actor, enrollments)
		if err != nil {
			return err
		}

		cells := make(map[uuid.UUID]*model.GridCell, len(classes))
		for _, c := range classes {
			cells[c.ID] = &model.GridCell{Class: c, TeacherName: teacherNames[c.TeacherID]}
		}

		for _, e := range enrollments {
			cell := cells[e.ClassID]
			if cell == nil {
				continue
			}
			cell.Enrolled++

			if e.Student == nil {
				continue
			}
			if actor.Role == model.RoleGuardian && e.Student.GuardianID != actor.ID {
				continue
			}
			cell.Students = append(cell.Students, model.GridStudent{
				EnrollmentID: e.ID,
				StudentID:    e.StudentID,
				Name:         e.Student.Name,
				Grade:        e.Student.Grade,
				GuardianName: guardianNames[e.Student.GuardianID],
			})
		}

		grid.Rows = layoutRows(classes, cells)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("build weekly grid: %w", err)
	}

	return grid, nil
}

// guardianNames resolves guardian names for admin and teacher viewers only.
func (s *GridService) guardianNames(ctx context.Context, repos repository.Repos, actor model.Actor, enrollments []*model.Enrollment) (map[uuid.UUID]string, error) {
	if actor.Role == model.RoleGuardian {
		return nil, nil
	}

	var ids []uuid.UUID
	for _, e := range enrollments {
		if e.Student != nil {
			ids = append(ids, e.Student.GuardianID)
		}
	}

	guardians, err := repos.Roster.GetGuardians(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string, len(guardians))
	for _, g := range guardians {
		names[g.ID] = g.Name
	}
	return names, nil
}

func layoutRows(classes []*model.ClassSlot, cells map[uuid.UUID]*model.GridCell) []model.GridRow {
	bounds := make([]model.Clock, 0, 2*len(classes))
	for _, c := range classes {
		bounds = append(bounds, c.StartTime, c.EndTime)
	}
	slices.Sort(bounds)
	bounds = slices.Compact(bounds)

	rows := make([]model.GridRow, len(bounds))
	index := make(map[model.Clock]int, len(bounds))
	for i, t := range bounds {
		rows[i].Time = t
		index[t] = i
	}

	for _, c := range classes {
		rows[index[c.StartTime]].Cells[c.DayOfWeek] = cells[c.ID]
	}
	return rows
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
