package model

import (
	"time"

	"github.com/google/uuid"
)

type Enrollment struct {
	ID        uuid.UUID `json:"id"`
	StudentID uuid.UUID `json:"student_id"`
	ClassID   uuid.UUID `json:"class_id"`
	CreatedAt time.Time `json:"created_at"`

	// Filled for display, not stored
	Student *Student   `json:"student,omitempty"`
	Class   *ClassSlot `json:"class,omitempty"`
}
