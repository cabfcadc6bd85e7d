package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ishita-lives/schedulr/internal/model"
)

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		in         string
		start, end string
		ok         bool
	}{
		{"16:00-17:00", "16:00", "17:00", true},
		{" 08:15 - 09:45 ", "08:15", "09:45", true},
		{"16:00", "", "", false},
		{"4pm-5pm", "", "", false},
		{"16:00-24:00", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			start, end, ok := ParseTimeRange(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestHelpText(t *testing.T) {
	assert.Contains(t, HelpText(model.RoleGuardian), "/newrequest")
	assert.Contains(t, HelpText(model.RoleAdmin), "/newrequest")
	assert.NotContains(t, HelpText(model.RoleTeacher), "/newrequest")
	assert.Contains(t, HelpText(model.RoleTeacher), "/requests")
}
