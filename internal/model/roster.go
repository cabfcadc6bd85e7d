package model

import "github.com/google/uuid"

// Student, Guardian and Teacher records are maintained outside the scheduler;
// it only reads them.

type Student struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Grade      string    `json:"grade"`
	GuardianID uuid.UUID `json:"guardian_id"`
}

type Guardian struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	TelegramID *int64    `json:"telegram_id"` // nil when the guardian has no chat account
}

type Teacher struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	TelegramID *int64    `json:"telegram_id"`
}
