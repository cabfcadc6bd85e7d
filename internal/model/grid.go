package model

import "github.com/google/uuid"

// WeeklyGrid is a read-only Sunday..Saturday view of class slots.
// Rows are the sorted, de-duplicated start and end times of the visible slots.
type WeeklyGrid struct {
	ViewerRole Role      `json:"viewer_role"`
	Rows       []GridRow `json:"rows"`
}

type GridRow struct {
	Time  Clock        `json:"time"`
	Cells [7]*GridCell `json:"cells"` // indexed by day of week, nil when no class starts here
}

type GridCell struct {
	Class       *ClassSlot    `json:"class"`
	TeacherName string        `json:"teacher_name"`
	Enrolled    int           `json:"enrolled"`
	Students    []GridStudent `json:"students"`
}

type GridStudent struct {
	EnrollmentID uuid.UUID `json:"enrollment_id"`
	StudentID    uuid.UUID `json:"student_id"`
	Name         string    `json:"name"`
	Grade        string    `json:"grade"`
	GuardianName string    `json:"guardian_name,omitempty"` // admin and teacher views only
}

// Cell returns the cell for a class starting at t on day, or nil.
func (g *WeeklyGrid) Cell(day int, t Clock) *GridCell {
	if day < 0 || day > 6 {
		return nil
	}
	for i := range g.Rows {
		if g.Rows[i].Time == t {
			return g.Rows[i].Cells[day]
		}
	}
	return nil
}

// Cells returns every non-empty cell ordered by day, then start time.
func (g *WeeklyGrid) Cells() []*GridCell {
	var cells []*GridCell
	for day := 0; day < 7; day++ {
		for i := range g.Rows {
			if c := g.Rows[i].Cells[day]; c != nil {
				cells = append(cells, c)
			}
		}
	}
	return cells
}

// IsEmpty reports whether no class is visible.
func (g *WeeklyGrid) IsEmpty() bool {
	return len(g.Rows) == 0
}
