package common

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishita-lives/schedulr/internal/model"
	"github.com/ishita-lives/schedulr/internal/service"
)

func TestErrorMessage(t *testing.T) {
	slot := &model.ClassSlot{Subject: "Mathematics", DayOfWeek: 1, StartTime: model.NewClock(9, 0), EndTime: model.NewClock(10, 0)}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", &service.ValidationError{Field: "end_time", Reason: "end time must be after start time"}, "❌ Invalid end_time: end time must be after start time"},
		{"not found", &service.NotFoundError{Entity: "enrollment", ID: uuid.Nil}, "❌ Enrollment not found"},
		{"conflict", &service.ConflictError{Slot: slot}, "❌ This time overlaps Mathematics on Monday 09:00-10:00"},
		{"capacity", &service.CapacityError{Capacity: 1}, "❌ The class is full"},
		{"duplicate", &service.DuplicateError{}, "❌ The student is already enrolled in this class"},
		{"forbidden", &service.ForbiddenError{Action: "decide this request"}, "❌ You are not allowed to decide this request"},
		{"invalid state", &service.InvalidStateError{Status: model.ChangeStatusApproved}, "❌ This request is already Approved"},
		{"wrapped", fmt.Errorf("decide: %w", &service.InvalidStateError{Status: model.ChangeStatusCancelled}), "❌ This request is already Cancelled"},
		{"unknown account", ErrUnknownAccount, "❌ Your Telegram account is not linked to the tutoring center. Please contact the office."},
		{"storage", errors.New("connection reset"), "❌ Something went wrong. Please try again later."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err))
		})
	}
}

func TestIsUserError(t *testing.T) {
	assert.True(t, IsUserError(&service.CapacityError{}))
	assert.True(t, IsUserError(fmt.Errorf("x: %w", ErrInvalidFormat)))
	assert.False(t, IsUserError(errors.New("boom")))
}

func TestParseIDFromCallback(t *testing.T) {
	id := uuid.New()

	got, err := ParseIDFromCallback(ChangeApprove+id.String(), ChangeApprove)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseIDFromCallback(ChangeReject+id.String(), ChangeApprove)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = ParseIDFromCallback(ChangeApprove+"123", ChangeApprove)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestParsePageFromCallback(t *testing.T) {
	page, err := ParsePageFromCallback(RequestsPage+"2", RequestsPage)
	require.NoError(t, err)
	assert.Equal(t, 2, page)

	_, err = ParsePageFromCallback(RequestsPage+"-1", RequestsPage)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func pendingRequests(n int, requester uuid.UUID) []*model.ChangeRequest {
	out := make([]*model.ChangeRequest, n)
	for i := range out {
		out[i] = &model.ChangeRequest{
			ID:          uuid.New(),
			Status:      model.ChangeStatusPending,
			RequestedBy: requester,
			OldStart:    model.NewClock(9, 0),
			OldEnd:      model.NewClock(10, 0),
			NewStart:    model.NewClock(16, 0),
			NewEnd:      model.NewClock(17, 0),
			Reason:      "dentist",
		}
	}
	return out
}

func TestRequestsScreen(t *testing.T) {
	guardian := model.Actor{ID: uuid.New(), Role: model.RoleGuardian}
	teacher := model.Actor{ID: uuid.New(), Role: model.RoleTeacher}

	t.Run("empty", func(t *testing.T) {
		text, kb := RequestsScreen(nil, teacher, 0)
		assert.Contains(t, text, "No pending")
		assert.Nil(t, kb)
	})

	t.Run("teacher gets decision buttons", func(t *testing.T) {
		reqs := pendingRequests(2, guardian.ID)
		_, kb := RequestsScreen(reqs, teacher, 0)
		require.NotNil(t, kb)
		require.Len(t, kb.InlineKeyboard, 2)
		row := kb.InlineKeyboard[0]
		require.Len(t, row, 2)
		assert.Equal(t, ChangeApprove+reqs[0].ID.String(), row[0].CallbackData)
		assert.Equal(t, ChangeReject+reqs[0].ID.String(), row[1].CallbackData)
	})

	t.Run("requester gets cancel only", func(t *testing.T) {
		reqs := pendingRequests(1, guardian.ID)
		_, kb := RequestsScreen(reqs, guardian, 0)
		require.NotNil(t, kb)
		require.Len(t, kb.InlineKeyboard, 1)
		require.Len(t, kb.InlineKeyboard[0], 1)
		assert.True(t, strings.HasPrefix(kb.InlineKeyboard[0][0].CallbackData, ChangeCancel))
	})

	t.Run("paginates", func(t *testing.T) {
		reqs := pendingRequests(RequestsPerPage+2, guardian.ID)
		text, kb := RequestsScreen(reqs, teacher, 1)
		assert.Contains(t, text, fmt.Sprintf("#%d", RequestsPerPage+1))
		assert.NotContains(t, text, "#1\n")

		last := kb.InlineKeyboard[len(kb.InlineKeyboard)-1]
		assert.Equal(t, RequestsPage+"0", last[0].CallbackData)
		assert.Equal(t, "📄 2/2", last[1].Text)
	})
}

func TestEnrollmentPicker(t *testing.T) {
	class := &model.ClassSlot{ID: uuid.New(), Subject: "Physics", DayOfWeek: 3, StartTime: model.NewClock(15, 0), EndTime: model.NewClock(16, 0)}
	e := &model.Enrollment{ID: uuid.New(), ClassID: class.ID, Class: class, Student: &model.Student{Name: "Sam Cole"}}

	text, kb := EnrollmentPicker([]*model.Enrollment{e})
	assert.Contains(t, text, "Which class")
	require.NotNil(t, kb)
	btn := kb.InlineKeyboard[0][0]
	assert.Equal(t, "Sam Cole: Physics, Wednesday 15:00-16:00", btn.Text)
	assert.Equal(t, ChangeNew+e.ID.String(), btn.CallbackData)

	_, kb = EnrollmentPicker(nil)
	assert.Nil(t, kb)
	assert.Nil(t, Markup(kb))
}
