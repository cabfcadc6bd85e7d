package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ishita-lives/schedulr/internal/model"
)

const sheetName = "Schedule"

// GridWorkbook writes the weekly grid to an XLSX workbook with one sheet.
// Columns are Sunday..Saturday, rows are the grid's time boundaries.
// It returns the file contents and a suggested file name.
func GridWorkbook(grid *model.WeeklyGrid) (*bytes.Buffer, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, "", fmt.Errorf("delete default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, "", fmt.Errorf("create header style: %w", err)
	}
	cellStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})
	if err != nil {
		return nil, "", fmt.Errorf("create cell style: %w", err)
	}

	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, colName(1), colName(7), 24)

	f.SetCellValue(sheetName, cell(0, 1), "Time")
	for day := 0; day < 7; day++ {
		f.SetCellValue(sheetName, cell(day+1, 1), model.Weekdays[day])
	}
	f.SetCellStyle(sheetName, cell(0, 1), cell(7, 1), headerStyle)

	for i, row := range grid.Rows {
		r := i + 2
		f.SetCellValue(sheetName, cell(0, r), row.Time.String())
		for day, c := range row.Cells {
			if c == nil {
				continue
			}
			f.SetCellValue(sheetName, cell(day+1, r), CellText(c))
		}
	}
	if len(grid.Rows) > 0 {
		f.SetCellStyle(sheetName, cell(1, 2), cell(7, len(grid.Rows)+1), cellStyle)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", fmt.Errorf("write workbook: %w", err)
	}

	return buf, "schedule.xlsx", nil
}

// CellText formats a grid cell as "Subject (n/cap)" followed by one line per
// listed student.
func CellText(c *model.GridCell) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d/%d)", c.Class.Subject, c.Enrolled, c.Class.Capacity)
	fmt.Fprintf(&b, "\n%s-%s", c.Class.StartTime, c.Class.EndTime)
	if c.TeacherName != "" {
		fmt.Fprintf(&b, "\n%s", c.TeacherName)
	}
	for _, s := range c.Students {
		b.WriteString("\n• ")
		b.WriteString(s.Name)
		if s.Grade != "" {
			fmt.Fprintf(&b, " (grade %s)", s.Grade)
		}
		if s.GuardianName != "" {
			fmt.Fprintf(&b, ", %s", s.GuardianName)
		}
	}
	return b.String()
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}
