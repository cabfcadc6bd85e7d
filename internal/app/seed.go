package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ishita-lives/schedulr/internal/model"
	"github.com/ishita-lives/schedulr/internal/repository/memory"
	"github.com/ishita-lives/schedulr/internal/service"
)

// Seeder fills an in-memory store with a small roster and a week of classes,
// so the bot and the sample renderer have something to show without Postgres.
type Seeder struct {
	store       *memory.Store
	catalog     *service.CatalogService
	enrollments *service.EnrollmentService
	logger      *zap.Logger
}

func NewSeeder(store *memory.Store, catalog *service.CatalogService, enrollments *service.EnrollmentService, logger *zap.Logger) *Seeder {
	return &Seeder{
		store:       store,
		catalog:     catalog,
		enrollments: enrollments,
		logger:      logger,
	}
}

type demoClass struct {
	subject    string
	teacher    int
	day        int
	start, end string
	capacity   int
	students   []int
}

// Seed registers adminTelegramID (when non-zero) as an admin account and
// returns the admin actor used to create the demo classes.
func (s *Seeder) Seed(ctx context.Context, adminTelegramID int64) (model.Actor, error) {
	admin := model.Actor{ID: uuid.New(), Role: model.RoleAdmin}
	if adminTelegramID != 0 {
		s.store.AddAccount(model.Account{
			TelegramID:  adminTelegramID,
			DisplayName: "Admin",
			Role:        model.RoleAdmin,
			ActorID:     admin.ID,
		})
	}

	teachers := []model.Teacher{
		{ID: uuid.New(), Name: "Ms. Rivera"},
		{ID: uuid.New(), Name: "Mr. Okafor"},
	}
	guardians := []model.Guardian{
		{ID: uuid.New(), Name: "Dana Cole", Email: "dana@example.com"},
		{ID: uuid.New(), Name: "Lee Park", Phone: "+1 555 0100"},
	}
	students := []model.Student{
		{ID: uuid.New(), Name: "Sam Cole", Grade: "7", GuardianID: guardians[0].ID},
		{ID: uuid.New(), Name: "Ava Cole", Grade: "4", GuardianID: guardians[0].ID},
		{ID: uuid.New(), Name: "Jin Park", Grade: "7", GuardianID: guardians[1].ID},
	}

	for _, t := range teachers {
		s.store.AddTeacher(t)
	}
	for _, g := range guardians {
		s.store.AddGuardian(g)
	}
	for _, st := range students {
		s.store.AddStudent(st)
	}

	classes := []demoClass{
		{"Mathematics", 0, 1, "09:00", "10:00", 3, []int{0, 2}},
		{"Reading", 1, 1, "10:00", "11:00", 4, []int{1}},
		{"Physics", 0, 2, "15:30", "17:00", 2, []int{0, 2}},
		{"Chemistry", 1, 3, "16:00", "17:00", 4, []int{2}},
		{"Writing", 1, 4, "14:00", "15:00", 2, []int{1}},
		{"Mathematics", 0, 6, "10:00", "12:00", 5, nil},
	}

	for _, c := range classes {
		slot, err := s.catalog.CreateClass(ctx, admin, service.ClassInput{
			Subject:   c.subject,
			TeacherID: teachers[c.teacher].ID,
			DayOfWeek: c.day,
			StartTime: c.start,
			EndTime:   c.end,
			Capacity:  c.capacity,
		})
		if err != nil {
			return admin, fmt.Errorf("seed class %s: %w", c.subject, err)
		}

		for _, i := range c.students {
			if _, err := s.enrollments.Enroll(ctx, admin, students[i].ID, slot.ID); err != nil {
				return admin, fmt.Errorf("seed enrollment %s/%s: %w", students[i].Name, c.subject, err)
			}
		}
	}

	s.logger.Info("demo data seeded",
		zap.Int("teachers", len(teachers)),
		zap.Int("students", len(students)),
		zap.Int("classes", len(classes)),
		zap.Bool("admin_account", adminTelegramID != 0))

	return admin, nil
}
