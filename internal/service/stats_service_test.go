package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishita-lives/schedulr/internal/model"
)

func TestStatsService_ByRole(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	math := env.mustCreate(t, env.input("Mathematics", 1, "09:00", "10:00", 3))
	otherIn := env.input("Physics", 2, "09:00", "10:00", 3)
	otherIn.TeacherID = env.teacherB.ID
	physics := env.mustCreate(t, otherIn)

	ea := env.mustEnroll(t, env.admin, env.studentA.ID, math.ID)
	env.mustEnroll(t, env.admin, env.studentB.ID, math.ID)
	env.mustEnroll(t, env.admin, env.studentB.ID, physics.ID)

	_, err := env.changes.RequestChange(ctx, env.guardianActorA(), ChangeInput{
		EnrollmentID:  ea.ID,
		RequestedDate: fixedNow.AddDate(0, 0, 1),
		NewStartTime:  "14:00",
		NewEndTime:    "15:00",
		Reason:        "trip",
	})
	require.NoError(t, err)

	tests := []struct {
		name  string
		actor model.Actor
		want  Stats
	}{
		{"admin", env.admin, Stats{Classes: 2, Students: 3, PendingRequests: 1}},
		{"teacher", env.teacherActor(), Stats{Classes: 1, Students: 2, PendingRequests: 1}},
		{"other teacher", model.Actor{ID: env.teacherB.ID, Role: model.RoleTeacher}, Stats{Classes: 1, Students: 1, PendingRequests: 0}},
		{"guardian A", env.guardianActorA(), Stats{Classes: 1, Students: 2, PendingRequests: 1}},
		{"guardian B", env.guardianActorB(), Stats{Classes: 2, Students: 1, PendingRequests: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.stats.Stats(ctx, tt.actor)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}
