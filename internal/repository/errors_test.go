package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/ishita-lives/schedulr/internal/model"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", fmt.Errorf("enroll: %w", &pgconn.PgError{Code: "40P01"}), true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestTranslate(t *testing.T) {
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23505"}), ErrDuplicate)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23P01"}), ErrOverlap)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23503"}), ErrForeignKey)

	other := errors.New("other")
	assert.Same(t, other, translate(other))
}

func TestFilterClause(t *testing.T) {
	where, args := filterClause(ChangeRequestFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	teacher := uuid.New()
	where, args = filterClause(ChangeRequestFilter{Status: model.ChangeStatusPending, TeacherID: teacher})
	assert.Contains(t, where, "r.status = $1")
	assert.Contains(t, where, "c.teacher_id = $2")
	assert.Equal(t, []any{model.ChangeStatusPending, teacher}, args)
}
