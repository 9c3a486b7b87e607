package calendar

import (
	"time"

	"github.com/wparra-sinapsiscode/frioservice-sub001/internal/constants"
)

// ViewMode selects the grid granularity of the calendar page
type ViewMode string

const (
	ViewMonth ViewMode = "month"
	ViewWeek  ViewMode = "week"
	ViewDay   ViewMode = "day"
)

// IsValid checks if the view mode is one of month, week or day
func (v ViewMode) IsValid() bool {
	return v == ViewMonth || v == ViewWeek || v == ViewDay
}

// Controller is the calendar navigation state machine: a cursor date, the
// active view mode and the active filters. It has value semantics — every
// transition returns the successor state — so it needs no locking and each
// request can rebuild it from its parameters.
type Controller struct {
	Year     int
	Month    time.Month
	Day      int
	View     ViewMode
	Criteria Criteria
}

// NewController returns the initial state: cursor on now's date, month view,
// default filters.
func NewController(now time.Time) Controller {
	y, m, d := now.Date()
	return Controller{
		Year:     y,
		Month:    m,
		Day:      d,
		View:     ViewMonth,
		Criteria: DefaultCriteria(),
	}
}

// Date resolves the cursor to a calendar date. An out-of-range cursor
// normalizes through standard date rollover.
func (c Controller) Date() time.Time {
	return time.Date(c.Year, c.Month, c.Day, 0, 0, 0, 0, time.UTC)
}

// Prev moves the cursor one step back: a month, a week or a day depending on
// the active view.
func (c Controller) Prev() Controller {
	return c.step(-1)
}

// Next moves the cursor one step forward
func (c Controller) Next() Controller {
	return c.step(1)
}

func (c Controller) step(dir int) Controller {
	switch c.View {
	case ViewWeek:
		return c.withDate(c.Date().AddDate(0, 0, 7*dir))
	case ViewDay:
		return c.withDate(c.Date().AddDate(0, 0, dir))
	default:
		// Month mode moves the month index and rolls the year at the
		// boundaries; the day is untouched since the month grid ignores it.
		month := c.Month + time.Month(dir)
		year := c.Year
		if month < time.January {
			month = time.December
			year--
		} else if month > time.December {
			month = time.January
			year++
		}
		next := c
		next.Year = year
		next.Month = month
		return next
	}
}

func (c Controller) withDate(d time.Time) Controller {
	next := c
	next.Year, next.Month, next.Day = d.Date()
	return next
}

// SetView switches the view mode; the cursor is unchanged. An invalid mode
// is ignored.
func (c Controller) SetView(v ViewMode) Controller {
	if !v.IsValid() {
		return c
	}
	next := c
	next.View = v
	return next
}

// ToggleType flips the membership of a filter category: added when absent,
// removed when present. An invalid category is ignored.
func (c Controller) ToggleType(cat constants.TypeCategory) Controller {
	if !cat.IsValid() {
		return c
	}
	next := c
	if c.Criteria.HasType(cat) {
		kept := make([]constants.TypeCategory, 0, len(c.Criteria.Types))
		for _, t := range c.Criteria.Types {
			if t != cat {
				kept = append(kept, t)
			}
		}
		next.Criteria.Types = kept
	} else {
		next.Criteria.Types = append(append([]constants.TypeCategory(nil), c.Criteria.Types...), cat)
	}
	return next
}

// SetTechnician replaces the technician filter value
func (c Controller) SetTechnician(name string) Controller {
	next := c
	next.Criteria.Technician = name
	return next
}

// SetStatus replaces the status filter value
func (c Controller) SetStatus(status string) Controller {
	next := c
	next.Criteria.Status = status
	return next
}

// SetPriority replaces the priority filter value
func (c Controller) SetPriority(priority string) Controller {
	next := c
	next.Criteria.Priority = priority
	return next
}

// Grid produces the day cells for the active view. Day view renders a single
// cell: the cursor date.
func (c Controller) Grid(today time.Time) []DayCell {
	switch c.View {
	case ViewWeek:
		return WeekGrid(c.Year, c.Month, c.Day, today)
	case ViewDay:
		return []DayCell{newDayCell(c.Date(), MonthCurrent, today)}
	default:
		return MonthGrid(c.Year, c.Month, today)
	}
}
