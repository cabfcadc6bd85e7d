package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/ishita-lives/schedulr/internal/model"
)

func TestEnrollmentService_Enroll_Success(t *testing.T) {
	env := setupTestEnv(t)
	slot := env.mustCreate(t, env.input("Mathematics", 1, "09:00", "10:00", 2))

	enrollment, err := env.enrollments.Enroll(context.Background(), env.guardianActorA(), env.studentA.ID, slot.ID)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, enrollment.ID)
	require.NotNil(t, enrollment.Student)
	require.NotNil(t, enrollment.Class)
	assert.Equal(t, "Sam Cole", enrollment.Student.Name)
	assert.Equal(t, "Mathematics", enrollment.Class.Subject)

	n, err := env.enrollments.CountForClass(context.Background(), slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEnrollmentService_Enroll_Failures(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	slot := env.mustCreate(t, env.input("Mathematics", 1, "09:00", "10:00", 1))

	_, err := env.enrollments.Enroll(ctx, env.admin, env.studentA.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound, "missing class")

	_, err = env.enrollments.Enroll(ctx, env.admin, uuid.New(), slot.ID)
	assert.ErrorIs(t, err, ErrNotFound, "missing student")

	_, err = env.enrollments.Enroll(ctx, env.guardianActorB(), env.studentA.ID, slot.ID)
	assert.ErrorIs(t, err, ErrForbidden, "other guardian's student")

	_, err = env.enrollments.Enroll(ctx, env.teacherActor(), env.studentA.ID, slot.ID)
	assert.ErrorIs(t, err, ErrForbidden, "teachers do not enroll")

	env.mustEnroll(t, env.admin, env.studentA.ID, slot.ID)

	_, err = env.enrollments.Enroll(ctx, env.admin, env.studentB.ID, slot.ID)
	var cerr *CapacityError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 1, cerr.Capacity)
}

func TestEnrollmentService_Enroll_Duplicate(t *testing.T) {
	env := setupTestEnv(t)
	slot := env.mustCreate(t, env.input("Mathematics", 1, "09:00", "10:00", 3))
	env.mustEnroll(t, env.admin, env.studentA.ID, slot.ID)

	_, err := env.enrollments.Enroll(context.Background(), env.guardianActorA(), env.studentA.ID, slot.ID)
	var derr *DuplicateError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, env.studentA.ID, derr.StudentID)
}

func TestEnrollmentService_Enroll_ConcurrentSingleSeat(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	slot := env.mustCreate(t, env.input("Mathematics", 1, "09:00", "10:00", 1))

	const n = 16
	students := make([]uuid.UUID, n)
	for i := range students {
		students[i] = uuid.New()
		env.store.AddStudent(model.Student{ID: students[i], Name: fmt.Sprintf("Student %d", i), GuardianID: env.guardianA.ID})
	}

	var won, full atomic.Int32
	var g errgroup.Group
	for _, id := range students {
		g.Go(func() error {
			_, err := env.enrollments.Enroll(ctx, env.guardianActorA(), id, slot.ID)
			switch {
			case err == nil:
				won.Add(1)
			case errors.Is(err, ErrCapacity):
				full.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.EqualValues(t, 1, won.Load())
	assert.EqualValues(t, n-1, full.Load())

	count, err := env.enrollments.CountForClass(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEnrollmentService_Unenroll(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	slot := env.mustCreate(t, env.input("Mathematics", 1, "09:00", "10:00", 1))
	enrollment := env.mustEnroll(t, env.guardianActorA(), env.studentA.ID, slot.ID)

	req, err := env.changes.RequestChange(ctx, env.guardianActorA(), ChangeInput{
		EnrollmentID:  enrollment.ID,
		RequestedDate: fixedNow,
		NewStartTime:  "16:00",
		NewEndTime:    "17:00",
		Reason:        "football practice",
	})
	require.NoError(t, err)

	err = env.enrollments.Unenroll(ctx, env.guardianActorB(), enrollment.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, env.enrollments.Unenroll(ctx, env.guardianActorA(), enrollment.ID))

	err = env.enrollments.Unenroll(ctx, env.guardianActorA(), enrollment.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// the freed seat can be taken again
	env.mustEnroll(t, env.guardianActorB(), env.studentB.ID, slot.ID)

	// the request survives as history, cancelled
	notice, err := env.changes.Notice(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ChangeStatusCancelled, notice.Request.Status)
}

func TestEnrollmentService_ReadAccessors(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	wed := env.mustCreate(t, env.input("Physics", 3, "09:00", "10:00", 3))
	mon := env.mustCreate(t, env.input("Mathematics", 1, "09:00", "10:00", 3))
	env.mustEnroll(t, env.admin, env.studentA.ID, wed.ID)
	env.mustEnroll(t, env.admin, env.studentA.ID, mon.ID)
	env.mustEnroll(t, env.admin, env.studentB.ID, mon.ID)

	forStudent, err := env.enrollments.EnrollmentsForStudent(ctx, env.studentA.ID)
	require.NoError(t, err)
	require.Len(t, forStudent, 2)
	assert.Equal(t, mon.ID, forStudent[0].Class.ID, "ordered by day")

	forClass, err := env.enrollments.EnrollmentsForClass(ctx, mon.ID)
	require.NoError(t, err)
	require.Len(t, forClass, 2)
	for _, e := range forClass {
		assert.NotNil(t, e.Student)
	}

	mine, err := env.enrollments.EnrollmentsForActor(ctx, env.guardianActorB())
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, env.studentB.ID, mine[0].StudentID)
	assert.Equal(t, mon.ID, mine[0].Class.ID)
}
