// Package render draws the weekly class grid as a PNG image.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/ishita-lives/schedulr/internal/model"
)

type fontStyle int

const (
	fontRegular fontStyle = iota
	fontMedium
	fontBold
)

const (
	imageWidth       = 1400
	imageHeight      = 900
	headerHeight     = 100
	leftLabelsWidth  = 80
	legendWidth      = 120
	dayPaddingX      = 8
	minSlotHeight    = 8.0
	slotBorderRadius = 6.0
	shadowOffset     = 3.0
	daysInWeek       = 7
	hourPaddingTop   = 1
	hourPaddingBot   = 1
	defaultMinHour   = 8
	defaultMaxHour   = 20
)

const (
	titleFontSize      = 25.0
	dayFontSize        = 22.0
	hourLabelFontSize  = 18.0
	slotTimeFontSize   = 15.0
	legendItemFontSize = 12.0
)

var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 220}
	hourLabelColor = color.RGBA{110, 115, 120, 200}
	hourLineColor  = color.NRGBA{150, 150, 150, 255}
	evenDayColor   = color.NRGBA{240, 240, 240, 255}
	oddDayColor    = color.NRGBA{220, 220, 220, 255}

	slotOpenColor    = color.RGBA{133, 193, 85, 220}
	slotFillingColor = color.RGBA{255, 205, 112, 230}
	slotFullColor    = color.RGBA{255, 182, 193, 255}
	slotTextColor    = color.RGBA{20, 24, 28, 230}
	slotFullText     = color.RGBA{120, 40, 50, 255}
	slotShadowColor  = color.RGBA{0, 0, 0, 20}

	legendItemColor = color.RGBA{70, 74, 78, 220}
)

type hourRange struct {
	start int
	end   int
	total int
}

var (
	fontsMu     sync.Mutex
	cachedFonts = make(map[fontStyle]*opentype.Font)
)

// loadFont sets a Go font face of the given size, falling back to basicfont.
func loadFont(dc *gg.Context, size float64, style fontStyle) {
	fontsMu.Lock()
	parsed, ok := cachedFonts[style]
	if !ok {
		data := goregular.TTF
		switch style {
		case fontMedium:
			data = gomedium.TTF
		case fontBold:
			data = gobold.TTF
		}
		var err error
		parsed, err = opentype.Parse(data)
		if err == nil {
			cachedFonts[style] = parsed
		}
	}
	fontsMu.Unlock()

	if parsed != nil {
		face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			dc.SetFontFace(face)
			return
		}
	}
	dc.SetFontFace(basicfont.Face7x13)
}

// GridImage renders the grid with days as columns and hours as rows. Each class
// is a rounded block coloured by how full it is.
func GridImage(grid *model.WeeklyGrid) ([]byte, error) {
	cells := grid.Cells()
	hours := calculateHourRange(cells)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()

	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / daysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, len(cells))
	drawHourLabels(dc, hours, cellHeight)
	for day := 0; day < daysInWeek; day++ {
		x := float64(leftLabelsWidth + day*dayWidth)
		drawDay(dc, day, x, dayWidth, dayHeight, hours, cellHeight)
	}
	for _, c := range cells {
		x := float64(leftLabelsWidth + c.Class.DayOfWeek*dayWidth)
		drawClass(dc, c, x, dayWidth, hours, cellHeight)
	}
	drawLegend(dc, dayWidth)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode grid image: %w", err)
	}
	return buf.Bytes(), nil
}

// calculateHourRange covers every class with one hour of padding on each side.
func calculateHourRange(cells []*model.GridCell) hourRange {
	minHour, maxHour := 24, 0
	for _, c := range cells {
		startH := c.Class.StartTime.Hour()
		endH := c.Class.EndTime.Hour()
		if c.Class.EndTime.Minute() > 0 {
			endH++
		}
		minHour = min(minHour, startH)
		maxHour = max(maxHour, endH)
	}
	if minHour == 24 {
		minHour, maxHour = defaultMinHour, defaultMaxHour
	}

	start := max(minHour-hourPaddingTop, 0)
	end := min(maxHour+hourPaddingBot, 24)
	return hourRange{start: start, end: end, total: end - start}
}

func drawHeader(dc *gg.Context, classes int) {
	title := fmt.Sprintf("Weekly schedule: %d classes", classes)
	if classes == 1 {
		title = "Weekly schedule: 1 class"
	}
	loadFont(dc, titleFontSize, fontBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, float64(leftLabelsWidth), float64(headerHeight)/4, 0, 0.5)
}

func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	loadFont(dc, hourLabelFontSize, fontMedium)
	dc.SetColor(hourLabelColor)

	for i := 0; i <= hours.total; i++ {
		y := float64(headerHeight) + float64(i)*cellHeight
		label := model.NewClock(hours.start+i, 0).String()
		dc.DrawStringAnchored(label, float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

func drawDay(dc *gg.Context, day int, x float64, dayWidth, dayHeight int, hours hourRange, cellHeight float64) {
	y := float64(headerHeight)

	if day%2 == 0 {
		dc.SetColor(evenDayColor)
	} else {
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()

	loadFont(dc, dayFontSize, fontBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(model.WeekdayName(day)[:3], x+float64(dayWidth)/2, y, 0.5, -0.4)

	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)
	for i := 0; i <= hours.total; i++ {
		hy := y + float64(i)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

func drawClass(dc *gg.Context, c *model.GridCell, x float64, dayWidth int, hours hourRange, cellHeight float64) {
	startHour := float64(c.Class.StartTime) / 60
	endHour := float64(c.Class.EndTime) / 60

	y := float64(headerHeight) + (startHour-float64(hours.start))*cellHeight
	height := max((endHour-startHour)*cellHeight, minSlotHeight)
	width := float64(dayWidth) - float64(dayPaddingX*2)
	left := x + float64(dayPaddingX)

	fill := slotColor(c)

	dc.SetColor(slotShadowColor)
	dc.DrawRoundedRectangle(left+shadowOffset, y+2+shadowOffset, width, height-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(left, y+2, width, height-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(darkenColor(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(left, y+2, width, height-4, slotBorderRadius)
	dc.Stroke()

	ink := slotTextColor
	if isFull(c) {
		ink = slotFullText
	}

	loadFont(dc, slotTimeFontSize, fontMedium)
	dc.SetColor(ink)
	txtX := left + 8
	txtY := y + 18
	dc.DrawStringAnchored(fmt.Sprintf("%s %d/%d", c.Class.StartTime, c.Enrolled, c.Class.Capacity), txtX, txtY, 0, 0)

	if height > 40 {
		loadFont(dc, slotTimeFontSize-2, fontRegular)
		dc.DrawStringAnchored(truncate(c.Class.Subject, 16), txtX, txtY+16, 0, 0)
	}
	if height > 58 && c.TeacherName != "" {
		dc.DrawStringAnchored(truncate(c.TeacherName, 16), txtX, txtY+32, 0, 0)
	}
}

func isFull(c *model.GridCell) bool {
	return c.Class.Capacity > 0 && c.Enrolled >= c.Class.Capacity
}

// slotColor picks green below half capacity, amber from half, pink when full.
func slotColor(c *model.GridCell) color.RGBA {
	switch {
	case isFull(c):
		return slotFullColor
	case c.Class.Capacity > 0 && 2*c.Enrolled >= c.Class.Capacity:
		return slotFillingColor
	default:
		return slotOpenColor
	}
}

func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func drawLegend(dc *gg.Context, dayWidth int) {
	legendX := float64(leftLabelsWidth + daysInWeek*dayWidth + 10)
	legendY := float64(imageHeight) - 100.0

	items := []struct {
		label string
		clr   color.Color
	}{
		{"Open", slotOpenColor},
		{"Filling", slotFillingColor},
		{"Full", slotFullColor},
	}

	const boxW, boxH = 20.0, 14.0
	liY := legendY + 22
	for _, item := range items {
		dc.SetColor(item.clr)
		dc.DrawRoundedRectangle(legendX, liY, boxW, boxH, 3)
		dc.Fill()

		loadFont(dc, legendItemFontSize, fontRegular)
		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(item.label, legendX+boxW+8, liY+boxH/2+1, 0, 0.2)
		liY += boxH + 14
	}
}
