package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ishita-lives/schedulr/internal/model"
	"github.com/ishita-lives/schedulr/internal/repository/memory"
)

// fixedNow is a Monday.
var fixedNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	store       *memory.Store
	catalog     *CatalogService
	enrollments *EnrollmentService
	changes     *ChangeService
	grid        *GridService
	stats       *StatsService

	admin     model.Actor
	teacher   model.Teacher
	teacherB  model.Teacher
	guardianA model.Guardian
	guardianB model.Guardian
	studentA  model.Student // guardianA
	studentA2 model.Student // guardianA
	studentB  model.Student // guardianB
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	logger := zap.NewNop()

	env := &testEnv{
		store:       store,
		catalog:     NewCatalogService(store, logger),
		enrollments: NewEnrollmentService(store, logger),
		changes:     NewChangeService(store, time.UTC, logger),
		grid:        NewGridService(store, logger),
		stats:       NewStatsService(store, logger),
		admin:       model.Actor{ID: uuid.New(), Role: model.RoleAdmin},
		teacher:     model.Teacher{ID: uuid.New(), Name: "Ms. Rivera"},
		teacherB:    model.Teacher{ID: uuid.New(), Name: "Mr. Okafor"},
		guardianA:   model.Guardian{ID: uuid.New(), Name: "Dana Cole"},
		guardianB:   model.Guardian{ID: uuid.New(), Name: "Lee Park"},
	}
	now := func() time.Time { return fixedNow }
	env.catalog.now = now
	env.enrollments.now = now
	env.changes.now = now

	env.studentA = model.Student{ID: uuid.New(), Name: "Sam Cole", Grade: "7", GuardianID: env.guardianA.ID}
	env.studentA2 = model.Student{ID: uuid.New(), Name: "Ava Cole", Grade: "4", GuardianID: env.guardianA.ID}
	env.studentB = model.Student{ID: uuid.New(), Name: "Jin Park", Grade: "7", GuardianID: env.guardianB.ID}

	store.AddTeacher(env.teacher)
	store.AddTeacher(env.teacherB)
	store.AddGuardian(env.guardianA)
	store.AddGuardian(env.guardianB)
	store.AddStudent(env.studentA)
	store.AddStudent(env.studentA2)
	store.AddStudent(env.studentB)

	return env
}

func (e *testEnv) teacherActor() model.Actor {
	return model.Actor{ID: e.teacher.ID, Role: model.RoleTeacher}
}

func (e *testEnv) guardianActorA() model.Actor {
	return model.Actor{ID: e.guardianA.ID, Role: model.RoleGuardian}
}

func (e *testEnv) guardianActorB() model.Actor {
	return model.Actor{ID: e.guardianB.ID, Role: model.RoleGuardian}
}

func (e *testEnv) input(subject string, day int, start, end string, capacity int) ClassInput {
	return ClassInput{
		Subject:   subject,
		TeacherID: e.teacher.ID,
		DayOfWeek: day,
		StartTime: start,
		EndTime:   end,
		Capacity:  capacity,
	}
}

func (e *testEnv) mustCreate(t *testing.T, in ClassInput) *model.ClassSlot {
	t.Helper()
	slot, err := e.catalog.CreateClass(context.Background(), e.admin, in)
	require.NoError(t, err)
	return slot
}

func (e *testEnv) mustEnroll(t *testing.T, actor model.Actor, studentID, classID uuid.UUID) *model.Enrollment {
	t.Helper()
	enrollment, err := e.enrollments.Enroll(context.Background(), actor, studentID, classID)
	require.NoError(t, err)
	return enrollment
}
