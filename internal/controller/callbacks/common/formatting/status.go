package formatting

import "github.com/ishita-lives/schedulr/internal/model"

type StatusDisplay struct {
	Emoji string
	Text  string
}

// GetChangeStatusDisplay returns the emoji and label for a request status.
func GetChangeStatusDisplay(status model.ChangeStatus) StatusDisplay {
	displays := map[model.ChangeStatus]StatusDisplay{
		model.ChangeStatusPending:   {"⏳", "Pending"},
		model.ChangeStatusApproved:  {"✅", "Approved"},
		model.ChangeStatusRejected:  {"🚫", "Rejected"},
		model.ChangeStatusCancelled: {"❌", "Cancelled"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Unknown"}
}
