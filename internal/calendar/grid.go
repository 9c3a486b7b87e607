// Package calendar implements the calendar core: day-cell grid generation,
// the projection of service records onto calendar events, event filtering and
// the navigation state machine driving the month/week/day views.
package calendar

import "time"

// MonthTag marks which month a day cell logically belongs to, relative to the
// month (or week) being displayed.
type MonthTag string

const (
	MonthPrev    MonthTag = "prev"
	MonthCurrent MonthTag = "current"
	MonthNext    MonthTag = "next"
	// MonthOther is used by week grids for days outside the anchor month
	MonthOther MonthTag = "other"
)

// DayCell is one square of a rendered month or week grid
type DayCell struct {
	Day     int       // day of month, 1-31
	Month   MonthTag  // which month the cell belongs to
	Date    time.Time // the cell's calendar date (midnight)
	IsToday bool
}

// MonthGridSize is the fixed cell count of a month grid: six full weeks
const MonthGridSize = 42

// DaysPerWeek is the cell count of a week grid
const DaysPerWeek = 7

// MonthGrid produces the 42-cell grid for the given month: leading cells from
// the previous month back to the nearest Sunday, every day of the target
// month, and trailing cells from the next month up to six full weeks.
//
// A month outside January..December normalizes through time.Date rollover
// (month 0 is December of year-1), matching calendar date arithmetic.
// today determines which cell carries the IsToday flag.
func MonthGrid(year int, month time.Month, today time.Time) []DayCell {
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)

	cells := make([]DayCell, 0, MonthGridSize)

	// Leading days from the previous month, back to Sunday
	for lead := int(firstOfMonth.Weekday()); lead > 0; lead-- {
		d := firstOfMonth.AddDate(0, 0, -lead)
		cells = append(cells, newDayCell(d, MonthPrev, today))
	}

	// Every day of the target month
	daysInMonth := firstOfMonth.AddDate(0, 1, -1).Day()
	for day := 0; day < daysInMonth; day++ {
		d := firstOfMonth.AddDate(0, 0, day)
		cells = append(cells, newDayCell(d, MonthCurrent, today))
	}

	// Trailing days from the next month until six full weeks
	firstOfNext := firstOfMonth.AddDate(0, 1, 0)
	for day := 0; len(cells) < MonthGridSize; day++ {
		d := firstOfNext.AddDate(0, 0, day)
		cells = append(cells, newDayCell(d, MonthNext, today))
	}

	return cells
}

// WeekGrid produces the 7-cell grid for the week containing the anchor date,
// starting on that week's Sunday. Cells falling inside the anchor month are
// tagged "current", the rest "other".
func WeekGrid(year int, month time.Month, day int, today time.Time) []DayCell {
	anchor := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// The month parameter normalizes independently of the day so an
	// overflowing day keeps its tags anchored to the requested month.
	refMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)

	sunday := anchor.AddDate(0, 0, -int(anchor.Weekday()))

	cells := make([]DayCell, 0, DaysPerWeek)
	for i := 0; i < DaysPerWeek; i++ {
		d := sunday.AddDate(0, 0, i)
		tag := MonthOther
		if d.Month() == refMonth.Month() && d.Year() == refMonth.Year() {
			tag = MonthCurrent
		}
		cells = append(cells, newDayCell(d, tag, today))
	}
	return cells
}

// Weeks chunks a grid into rows of seven cells for template rendering
func Weeks(cells []DayCell) [][]DayCell {
	var weeks [][]DayCell
	for len(cells) >= DaysPerWeek {
		weeks = append(weeks, cells[:DaysPerWeek])
		cells = cells[DaysPerWeek:]
	}
	return weeks
}

func newDayCell(d time.Time, tag MonthTag, today time.Time) DayCell {
	ty, tm, td := today.Date()
	y, m, day := d.Date()
	return DayCell{
		Day:     day,
		Month:   tag,
		Date:    d,
		IsToday: y == ty && m == tm && day == td,
	}
}
