package export

import (
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ishita-lives/schedulr/internal/model"
)

func sampleGrid() *model.WeeklyGrid {
	math := &model.ClassSlot{
		ID: uuid.New(), Subject: "Mathematics", DayOfWeek: 1,
		StartTime: model.NewClock(9, 0), EndTime: model.NewClock(10, 0), Capacity: 2,
	}
	grid := &model.WeeklyGrid{
		ViewerRole: model.RoleAdmin,
		Rows: []model.GridRow{
			{Time: model.NewClock(9, 0)},
			{Time: model.NewClock(10, 0)},
		},
	}
	grid.Rows[0].Cells[1] = &model.GridCell{
		Class:       math,
		TeacherName: "Ms. Rivera",
		Enrolled:    1,
		Students:    []model.GridStudent{{Name: "Sam Cole", Grade: "7", GuardianName: "Dana Cole"}},
	}
	return grid
}

func TestGridWorkbook(t *testing.T) {
	buf, name, err := GridWorkbook(sampleGrid())
	require.NoError(t, err)
	assert.Equal(t, "schedule.xlsx", name)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetName}, f.GetSheetList())

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Time", "Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}, rows[0])
	assert.Equal(t, "09:00", rows[1][0])
	assert.Equal(t, "10:00", rows[2][0])

	monday, err := f.GetCellValue(sheetName, "C2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(monday, "Mathematics (1/2)"))
	assert.Contains(t, monday, "Sam Cole (grade 7), Dana Cole")

	sunday, err := f.GetCellValue(sheetName, "B2")
	require.NoError(t, err)
	assert.Empty(t, sunday)
}

func TestGridWorkbook_Empty(t *testing.T) {
	buf, _, err := GridWorkbook(&model.WeeklyGrid{ViewerRole: model.RoleGuardian})
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestFirstOccurrence(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// Wednesday 2026-03-04, late evening UTC is already Thursday in Berlin
	from := time.Date(2026, 3, 4, 23, 30, 0, 0, time.UTC)
	class := &model.ClassSlot{DayOfWeek: 4, StartTime: model.NewClock(16, 30), EndTime: model.NewClock(17, 30)}

	got := FirstOccurrence(class, from, loc)
	assert.Equal(t, time.Date(2026, 3, 5, 16, 30, 0, 0, loc), got)

	class.DayOfWeek = 1
	got = FirstOccurrence(class, from, loc)
	assert.Equal(t, time.Date(2026, 3, 9, 16, 30, 0, 0, loc), got)
}

func TestCalendar(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	math := &model.ClassSlot{
		ID: uuid.New(), Subject: "Mathematics", DayOfWeek: 1,
		StartTime: model.NewClock(9, 0), EndTime: model.NewClock(10, 30), Capacity: 2,
	}
	student := &model.Student{ID: uuid.New(), Name: "Sam Cole"}
	enrollments := []*model.Enrollment{
		{ID: uuid.New(), StudentID: student.ID, ClassID: math.ID, Student: student, Class: math},
		{ID: uuid.New(), StudentID: uuid.New(), ClassID: uuid.New()}, // class not loaded
	}

	out := Calendar(enrollments, time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC), loc)
	assert.Contains(t, out, "RRULE:FREQ=WEEKLY;BYDAY=MO")

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "Sam Cole: Mathematics", ev.GetProperty(ics.ComponentPropertySummary).Value)

	start := ev.GetProperty(ics.ComponentPropertyDtStart)
	assert.Equal(t, "20260302T090000", start.Value)
	assert.Equal(t, []string{"Europe/Berlin"}, start.ICalParameters["TZID"])
	assert.Equal(t, "20260302T103000", ev.GetProperty(ics.ComponentPropertyDtEnd).Value)
}
