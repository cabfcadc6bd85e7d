package model

import (
	"time"

	"github.com/google/uuid"
)

type ChangeStatus string

const (
	ChangeStatusPending   ChangeStatus = "PENDING"
	ChangeStatusApproved  ChangeStatus = "APPROVED"
	ChangeStatusRejected  ChangeStatus = "REJECTED"
	ChangeStatusCancelled ChangeStatus = "CANCELLED"
)

// Valid reports whether s is one of the four persisted literals.
func (s ChangeStatus) Valid() bool {
	switch s {
	case ChangeStatusPending, ChangeStatusApproved, ChangeStatusRejected, ChangeStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s ChangeStatus) Terminal() bool {
	return s == ChangeStatusApproved || s == ChangeStatusRejected || s == ChangeStatusCancelled
}

// ChangeRequest asks to move one enrollment's attendance on a given date.
// OldStart/OldEnd and ClassID are captured when the request is created.
type ChangeRequest struct {
	ID            uuid.UUID    `json:"id"`
	EnrollmentID  uuid.UUID    `json:"enrollment_id"`
	ClassID       uuid.UUID    `json:"class_id"`
	StudentID     uuid.UUID    `json:"student_id"`
	RequestedDate time.Time    `json:"requested_date"`
	OldStart      Clock        `json:"old_start_time"`
	OldEnd        Clock        `json:"old_end_time"`
	NewStart      Clock        `json:"new_start_time"`
	NewEnd        Clock        `json:"new_end_time"`
	Reason        string       `json:"reason"`
	Status        ChangeStatus `json:"status"`
	RequestedBy   uuid.UUID    `json:"requested_by"`
	DecidedBy     *uuid.UUID   `json:"decided_by,omitempty"`
	DecidedAt     *time.Time   `json:"decided_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

// IsPending checks if the request still awaits a decision
func (r *ChangeRequest) IsPending() bool {
	return r.Status == ChangeStatusPending
}
