package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishita-lives/schedulr/internal/model"
	"github.com/ishita-lives/schedulr/internal/repository"
)

type fixture struct {
	store    *Store
	teacher  model.Teacher
	guardian model.Guardian
	student  model.Student
}

func newFixture() *fixture {
	f := &fixture{
		store:    NewStore(),
		teacher:  model.Teacher{ID: uuid.New(), Name: "Ms. Rivera"},
		guardian: model.Guardian{ID: uuid.New(), Name: "Dana Cole"},
	}
	f.student = model.Student{ID: uuid.New(), Name: "Sam Cole", Grade: "7", GuardianID: f.guardian.ID}
	f.store.AddTeacher(f.teacher)
	f.store.AddGuardian(f.guardian)
	f.store.AddStudent(f.student)
	return f
}

func (f *fixture) slot(day int, start, end model.Clock) *model.ClassSlot {
	return &model.ClassSlot{
		Subject:   "Mathematics",
		TeacherID: f.teacher.ID,
		DayOfWeek: day,
		StartTime: start,
		EndTime:   end,
		Capacity:  2,
	}
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	boom := errors.New("boom")

	err := f.store.WithTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		require.NoError(t, repos.Classes.Create(ctx, f.slot(1, model.NewClock(9, 0), model.NewClock(10, 0))))
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = f.store.ReadOnly(ctx, func(ctx context.Context, repos repository.Repos) error {
		classes, err := repos.Classes.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, classes)
		return nil
	})
	require.NoError(t, err)
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	slot := f.slot(1, model.NewClock(9, 0), model.NewClock(10, 0))

	require.NoError(t, f.store.WithTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		return repos.Classes.Create(ctx, slot)
	}))
	require.NotEqual(t, uuid.Nil, slot.ID)

	require.NoError(t, f.store.ReadOnly(ctx, func(ctx context.Context, repos repository.Repos) error {
		got, err := repos.Classes.GetByID(ctx, slot.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Mathematics", got.Subject)
		assert.False(t, got.CreatedAt.IsZero())
		return nil
	}))
}

func TestWithTx_CancelledContext(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := f.store.WithTx(ctx, func(context.Context, repository.Repos) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestClassRepo_OverlapBackstop(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	err := f.store.WithTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		require.NoError(t, repos.Classes.Create(ctx, f.slot(1, model.NewClock(9, 0), model.NewClock(10, 0))))
		require.NoError(t, repos.Classes.Create(ctx, f.slot(1, model.NewClock(10, 0), model.NewClock(11, 0))))
		require.NoError(t, repos.Classes.Create(ctx, f.slot(2, model.NewClock(9, 30), model.NewClock(10, 30))))
		return repos.Classes.Create(ctx, f.slot(1, model.NewClock(9, 30), model.NewClock(10, 30)))
	})
	assert.ErrorIs(t, err, repository.ErrOverlap)
}

func TestEnrollmentRepo_UniquePairAndCascade(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	slot := f.slot(3, model.NewClock(15, 0), model.NewClock(16, 0))

	require.NoError(t, f.store.WithTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		if err := repos.Classes.Create(ctx, slot); err != nil {
			return err
		}
		return repos.Enrollments.Create(ctx, &model.Enrollment{StudentID: f.student.ID, ClassID: slot.ID})
	}))

	err := f.store.WithTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		return repos.Enrollments.Create(ctx, &model.Enrollment{StudentID: f.student.ID, ClassID: slot.ID})
	})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	require.NoError(t, f.store.WithTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		return repos.Classes.Delete(ctx, slot.ID)
	}))

	require.NoError(t, f.store.ReadOnly(ctx, func(ctx context.Context, repos repository.Repos) error {
		n, err := repos.Enrollments.CountByClass(ctx, slot.ID)
		require.NoError(t, err)
		assert.Zero(t, n)

		classes, err := repos.Classes.ListByGuardian(ctx, f.guardian.ID)
		require.NoError(t, err)
		assert.Empty(t, classes)
		return nil
	}))
}

func TestChangeRepo_TransitionOnlyFromPending(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	actor := uuid.New()
	req := &model.ChangeRequest{
		EnrollmentID: uuid.New(),
		ClassID:      uuid.New(),
		StudentID:    f.student.ID,
		Status:       model.ChangeStatusPending,
	}

	require.NoError(t, f.store.WithTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		return repos.Changes.Create(ctx, req)
	}))

	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	require.NoError(t, f.store.WithTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		ok, err := repos.Changes.Transition(ctx, req.ID, model.ChangeStatusApproved, actor, at)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repos.Changes.Transition(ctx, req.ID, model.ChangeStatusRejected, actor, at)
		require.NoError(t, err)
		assert.False(t, ok, "terminal request must not transition again")
		return nil
	}))

	require.NoError(t, f.store.ReadOnly(ctx, func(ctx context.Context, repos repository.Repos) error {
		got, err := repos.Changes.GetByID(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, model.ChangeStatusApproved, got.Status)
		require.NotNil(t, got.DecidedBy)
		assert.Equal(t, actor, *got.DecidedBy)

		n, err := repos.Changes.Count(ctx, repository.ChangeRequestFilter{
			Status:     model.ChangeStatusApproved,
			GuardianID: f.guardian.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		return nil
	}))
}

func TestAccounts(t *testing.T) {
	f := newFixture()
	f.store.AddAccount(model.Account{TelegramID: 42, Role: model.RoleGuardian, ActorID: f.guardian.ID})

	acc, err := f.store.Accounts().GetByTelegramID(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, model.Actor{ID: f.guardian.ID, Role: model.RoleGuardian}, acc.Actor())

	acc, err = f.store.Accounts().GetByTelegramID(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, acc)
}

func TestRemoveStudent_CascadesEnrollmentsAndCancelsPending(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	other := model.Student{ID: uuid.New(), Name: "Ava Cole", GuardianID: f.guardian.ID}
	f.store.AddStudent(other)

	var gone, kept *model.ChangeRequest
	err := f.store.WithTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		slot := f.slot(1, model.NewClock(9, 0), model.NewClock(10, 0))
		require.NoError(t, repos.Classes.Create(ctx, slot))

		mine := &model.Enrollment{StudentID: f.student.ID, ClassID: slot.ID}
		theirs := &model.Enrollment{StudentID: other.ID, ClassID: slot.ID}
		require.NoError(t, repos.Enrollments.Create(ctx, mine))
		require.NoError(t, repos.Enrollments.Create(ctx, theirs))

		gone = &model.ChangeRequest{EnrollmentID: mine.ID, ClassID: slot.ID, StudentID: f.student.ID,
			NewStart: model.NewClock(16, 0), NewEnd: model.NewClock(17, 0), Status: model.ChangeStatusPending}
		kept = &model.ChangeRequest{EnrollmentID: theirs.ID, ClassID: slot.ID, StudentID: other.ID,
			NewStart: model.NewClock(16, 0), NewEnd: model.NewClock(17, 0), Status: model.ChangeStatusPending}
		require.NoError(t, repos.Changes.Create(ctx, gone))
		return repos.Changes.Create(ctx, kept)
	})
	require.NoError(t, err)

	f.store.RemoveStudent(f.student.ID)

	err = f.store.ReadOnly(ctx, func(ctx context.Context, repos repository.Repos) error {
		st, err := repos.Roster.GetStudent(ctx, f.student.ID)
		require.NoError(t, err)
		assert.Nil(t, st)

		left, err := repos.Enrollments.ListByStudent(ctx, f.student.ID)
		require.NoError(t, err)
		assert.Empty(t, left)

		n, err := repos.Enrollments.CountByClass(ctx, gone.ClassID)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "other students keep their seat")

		req, err := repos.Changes.GetByID(ctx, gone.ID)
		require.NoError(t, err)
		assert.Equal(t, model.ChangeStatusCancelled, req.Status)
		assert.Nil(t, req.DecidedBy)
		assert.NotNil(t, req.DecidedAt)

		req, err = repos.Changes.GetByID(ctx, kept.ID)
		require.NoError(t, err)
		assert.Equal(t, model.ChangeStatusPending, req.Status)
		return nil
	})
	require.NoError(t, err)
}
