package state

import "time"

// UserState is the step a user is at in a multi-message dialog.
type UserState string

const (
	StateNone UserState = ""

	// Schedule-change request dialog, started by picking an enrollment.
	StateChangeDate   UserState = "change_date"
	StateChangeTimes  UserState = "change_times"
	StateChangeReason UserState = "change_reason"
)

// Keys of the dialog data map.
const (
	KeyEnrollmentID = "enrollment_id"
	KeyDate         = "requested_date"
	KeyStartTime    = "new_start_time"
	KeyEndTime      = "new_end_time"
)

// DialogTTL is how long an untouched dialog survives. A user who walks away
// mid-request starts from scratch next time.
const DialogTTL = 30 * time.Minute

type session struct {
	state   UserState
	data    map[string]string
	touched time.Time
}
