package common

import (
	"errors"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ishita-lives/schedulr/internal/service"
)

var (
	ErrUnknownAccount = errors.New("telegram account is not linked")
	ErrNoMessage      = errors.New("no message in callback")
	ErrInvalidFormat  = errors.New("invalid callback format")
)

// IsUserError reports whether err is the caller's fault and should be shown
// to them rather than logged as a failure.
func IsUserError(err error) bool {
	for _, target := range []error{
		service.ErrValidation, service.ErrNotFound, service.ErrConflict, service.ErrCapacity,
		service.ErrDuplicate, service.ErrForbidden, service.ErrInvalidState,
		ErrUnknownAccount, ErrNoMessage, ErrInvalidFormat,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ErrorMessage returns the text shown to the user for err.
func ErrorMessage(err error) string {
	var (
		validation *service.ValidationError
		notFound   *service.NotFoundError
		conflict   *service.ConflictError
		forbidden  *service.ForbiddenError
		state      *service.InvalidStateError
	)

	switch {
	case errors.As(err, &validation):
		return fmt.Sprintf("❌ Invalid %s: %s", validation.Field, validation.Reason)
	case errors.As(err, &notFound):
		return fmt.Sprintf("❌ %s not found", capitalize(notFound.Entity))
	case errors.As(err, &conflict):
		return "❌ This time " + conflict.Error()
	case errors.Is(err, service.ErrCapacity):
		return "❌ The class is full"
	case errors.Is(err, service.ErrDuplicate):
		return "❌ The student is already enrolled in this class"
	case errors.As(err, &forbidden):
		return fmt.Sprintf("❌ You are not allowed to %s", forbidden.Action)
	case errors.As(err, &state):
		return fmt.Sprintf("❌ This request is already %s", capitalize(string(state.Status)))
	case errors.Is(err, ErrUnknownAccount):
		return "❌ Your Telegram account is not linked to the tutoring center. Please contact the office."
	case errors.Is(err, ErrNoMessage):
		return "❌ Could not process the message"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Invalid data format"
	default:
		return "❌ Something went wrong. Please try again later."
	}
}

func capitalize(s string) string {
	return cases.Title(language.English).String(s)
}
