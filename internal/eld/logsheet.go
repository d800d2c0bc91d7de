package eld

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/haulplan/eld-backend/internal/models"
)

// Page layout in inches on US Letter, origin top-left.
const (
	pageWidth  = 8.5
	pageHeight = 11.0
	margin     = 0.5

	gridTopY   = 2.5
	gridWidth  = pageWidth - 2*margin
	gridHeight = 2.0
	rowHeight  = gridHeight / 4
	hourWidth  = gridWidth / 24

	// one typographic point in inches
	pt = 1.0 / 72

	maxRemarks = 15
)

// statusRow maps a duty status to its grid row, top to bottom.
var statusRow = map[models.DutyStatus]int{
	models.StatusOffDuty:          0,
	models.StatusSleeperBerth:     1,
	models.StatusDriving:          2,
	models.StatusOnDutyNotDriving: 3,
}

// Generator renders driver daily log sheets in the FMCSA grid format,
// one page per calendar day.
type Generator struct{}

// NewGenerator creates a log sheet generator
func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateDailyLogs renders every daily log as its own page and returns
// the assembled PDF.
func (g *Generator) GenerateDailyLogs(logs []models.DailyLog, driver models.DriverInfo) ([]byte, error) {
	if len(logs) == 0 {
		return nil, fmt.Errorf("no daily logs to render")
	}

	pdf := fpdf.New("P", "in", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i := range logs {
		pdf.AddPage()
		g.drawHeader(pdf, &logs[i], driver)
		g.drawGrid(pdf)
		g.drawDutyStatus(pdf, &logs[i])
		g.drawRemarks(pdf, &logs[i])
		g.drawTotals(pdf, &logs[i])
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render log sheets: %w", err)
	}

	return buf.Bytes(), nil
}

func (g *Generator) drawHeader(pdf *fpdf.Fpdf, log *models.DailyLog, driver models.DriverInfo) {
	y := margin

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(margin, y, "Driver's Daily Log")
	y += 0.3

	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(margin, y, fmt.Sprintf("Date: %s", log.Date.Format("01/02/2006")))
	pdf.Text(3.5, y, fmt.Sprintf("Total Miles: %d", int(log.TotalDrivingMiles)))
	y += 0.25

	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(margin, y, fmt.Sprintf("Driver: %s", orNA(driver.DriverName)))
	y += 0.2
	pdf.Text(margin, y, fmt.Sprintf("Carrier: %s", orNA(driver.CarrierName)))
	y += 0.2
	pdf.Text(margin, y, fmt.Sprintf("Main Office: %s", orNA(driver.MainOffice)))
	y += 0.2
	pdf.Text(margin, y, fmt.Sprintf("Vehicle: %s", orNA(driver.VehicleNumber)))
	y += 0.3

	pdf.SetFont("Helvetica", "I", 8)
	pdf.Text(margin, y, "(24-hour period starting midnight)")
}

func (g *Generator) drawGrid(pdf *fpdf.Fpdf) {
	x := margin
	y := gridTopY

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(1.5 * pt)
	pdf.Rect(x, y, gridWidth, gridHeight, "D")

	// Separators between the four duty rows
	pdf.SetLineWidth(0.5 * pt)
	for i := 1; i < 4; i++ {
		rowY := y + float64(i)*rowHeight
		pdf.Line(x, rowY, x+gridWidth, rowY)
	}

	// Hour lines, heavier on even hours
	for i := 1; i < 24; i++ {
		lineX := x + float64(i)*hourWidth
		if i%2 == 0 {
			pdf.SetLineWidth(0.8 * pt)
		} else {
			pdf.SetLineWidth(0.3 * pt)
		}
		pdf.Line(lineX, y, lineX, y+gridHeight)
	}

	// Hour labels above the grid, every two hours plus noon
	pdf.SetFont("Helvetica", "", 7)
	for i := 0; i <= 24; i++ {
		if i%2 != 0 && i != 12 {
			continue
		}
		label := strconv.Itoa(i)
		switch i {
		case 0, 24:
			label = "Mid"
		case 12:
			label = "Noon"
		}
		pdf.Text(x+float64(i)*hourWidth-8*pt, y-5*pt, label)
	}

	// Duty status labels inside the left edge of each row
	pdf.SetFont("Helvetica", "", 6)
	labels := []string{"Off Duty", "Sleeper Berth", "Driving", "On Duty (Not Driving)"}
	for i, label := range labels {
		labelY := y + (float64(i)+0.5)*rowHeight + 5*pt
		pdf.Text(x+2*pt, labelY, label)
	}
}

func (g *Generator) drawDutyStatus(pdf *fpdf.Fpdf, log *models.DailyLog) {
	x := margin
	y := gridTopY

	pdf.SetDrawColor(0, 0, 255)
	pdf.SetLineWidth(2 * pt)

	prevRow := -1
	for i := range log.Events {
		event := &log.Events[i]

		startHour := event.StartTime.Sub(log.Date).Hours()
		if startHour < 0 {
			// Belongs to the previous day's sheet
			continue
		}
		if startHour >= 24 {
			break
		}

		endHour := startHour + event.DurationHours
		if endHour > 24 {
			endHour = 24
		}

		row, ok := statusRow[event.Status]
		if !ok {
			row = 3
		}
		lineY := y + (float64(row)+0.5)*rowHeight

		startX := x + startHour*hourWidth
		endX := x + endHour*hourWidth
		pdf.Line(startX, lineY, endX, lineY)

		// Vertical transition from the previous status
		if prevRow >= 0 && prevRow != row {
			prevY := y + (float64(prevRow)+0.5)*rowHeight
			pdf.Line(startX, prevY, startX, lineY)
		}
		prevRow = row
	}

	pdf.SetDrawColor(0, 0, 0)
}

func (g *Generator) drawRemarks(pdf *fpdf.Fpdf, log *models.DailyLog) {
	y := gridTopY + gridHeight + 0.3

	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(margin, y, "REMARKS (Location for each duty status change):")
	y += 0.15

	pdf.SetFont("Helvetica", "", 8)

	count := 0
	for i := range log.Events {
		event := &log.Events[i]
		if !remarkWorthy(event) {
			continue
		}

		place := event.LocationName
		if place == "" {
			place = "Unknown, Unknown"
		}

		remark := fmt.Sprintf("%s - %s (%s)", event.StartTime.Format("03:04 PM"), event.Activity, place)
		if len(remark) > 120 {
			remark = remark[:120]
		}

		pdf.Text(margin+10*pt, y, remark)
		y += 0.12
		count++

		if count >= maxRemarks || y > pageHeight-margin-0.5 {
			break
		}
	}
}

// remarkWorthy keeps the sheet readable: duty status changes and breaks
// get a remark, plain rest periods do not.
func remarkWorthy(e *models.DutyEvent) bool {
	if e.Status == models.StatusDriving || e.Status == models.StatusOnDutyNotDriving {
		return true
	}
	return strings.Contains(e.Activity, "Break")
}

func (g *Generator) drawTotals(pdf *fpdf.Fpdf, log *models.DailyLog) {
	x := pageWidth - 2.5
	y := 1.0

	pdf.SetFont("Helvetica", "B", 9)
	pdf.Text(x, y, "Total Hours:")
	y += 0.15

	pdf.SetFont("Helvetica", "", 9)
	totals := []struct {
		label string
		hours float64
	}{
		{"Off Duty:", log.TotalOffDutyHours},
		{"Sleeper Berth:", log.TotalSleeperHours},
		{"Driving:", log.TotalDrivingHours},
		{"On Duty:", log.TotalOnDutyHours},
	}
	for _, t := range totals {
		pdf.Text(x, y, fmt.Sprintf("%s %.1f hrs", t.label, t.hours))
		y += 0.12
	}

	total := log.TotalOffDutyHours + log.TotalSleeperHours + log.TotalDrivingHours + log.TotalOnDutyHours
	pdf.SetFont("Helvetica", "B", 9)
	pdf.Text(x, y+0.1, fmt.Sprintf("Total: %.1f hrs", total))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
