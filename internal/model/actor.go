package model

import "github.com/google/uuid"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleTeacher  Role = "teacher"
	RoleGuardian Role = "guardian"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleTeacher || r == RoleGuardian
}

// Actor is the authenticated caller of a scheduling operation.
// For teachers and guardians ID is the Teacher.ID / Guardian.ID.
type Actor struct {
	ID   uuid.UUID `json:"id"`
	Role Role      `json:"role"`
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// Account links a Telegram user to an Actor.
type Account struct {
	TelegramID  int64     `json:"telegram_id"`
	DisplayName string    `json:"display_name"`
	Role        Role      `json:"role"`
	ActorID     uuid.UUID `json:"actor_id"`
}

func (a *Account) Actor() Actor {
	return Actor{ID: a.ActorID, Role: a.Role}
}
