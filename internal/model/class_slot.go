package model

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCapacity is used when a class is created without an explicit capacity.
const DefaultCapacity = 4

// ClassSlot is a recurring weekly class.
type ClassSlot struct {
	ID        uuid.UUID `json:"id"`
	Subject   string    `json:"subject"`
	TeacherID uuid.UUID `json:"teacher_id"`
	DayOfWeek int       `json:"day_of_week"` // 0 = Sunday, 6 = Saturday
	StartTime Clock     `json:"start_time"`
	EndTime   Clock     `json:"end_time"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Interval returns the slot's weekly time range.
func (c *ClassSlot) Interval() Interval {
	return Interval{Day: c.DayOfWeek, Start: c.StartTime, End: c.EndTime}
}

// Weekday names indexed by DayOfWeek.
var Weekdays = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// WeekdayName returns the English name of a 0-6 day index.
func WeekdayName(day int) string {
	if day < 0 || day > 6 {
		return "?"
	}
	return Weekdays[day]
}
