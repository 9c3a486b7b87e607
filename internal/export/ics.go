// Package export renders filtered calendar events as an iCalendar feed so
// technicians can subscribe from their own calendar clients.
package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/wparra-sinapsiscode/frioservice-sub001/internal/calendar"
	"github.com/wparra-sinapsiscode/frioservice-sub001/internal/constants"
)

const defaultDurationMinutes = 60

// BuildICS serializes the given events into an iCalendar document.
// Unscheduled events (empty Date) are skipped: without a date there is
// nothing to put on a calendar. Events with a date but no time become
// all-day entries.
func BuildICS(events []calendar.Event, loc *time.Location, now time.Time) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(fmt.Sprintf("-//%s//Calendario de Servicios//ES", constants.FrioServiceIdentifier))

	for _, e := range events {
		if e.Date == "" {
			continue
		}

		ev := cal.AddEvent(fmt.Sprintf("service-%s@frioservice", e.ID))
		ev.SetDtStampTime(now)
		ev.SetSummary(eventSummary(e))
		if e.Address != "" {
			ev.SetLocation(e.Address)
		}
		if desc := eventDescription(e); desc != "" {
			ev.SetDescription(desc)
		}

		if e.Time == calendar.NoTimeLabel {
			day, err := time.ParseInLocation("2006-01-02", e.Date, loc)
			if err != nil {
				return "", fmt.Errorf("event %s has malformed date %q: %w", e.ID, e.Date, err)
			}
			ev.SetAllDayStartAt(day)
			ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
			continue
		}

		start, err := time.ParseInLocation("2006-01-02 15:04", e.Date+" "+e.Time, loc)
		if err != nil {
			return "", fmt.Errorf("event %s has malformed schedule %q %q: %w", e.ID, e.Date, e.Time, err)
		}
		duration := e.Duration
		if duration <= 0 {
			duration = defaultDurationMinutes
		}
		ev.SetStartAt(start)
		ev.SetEndAt(start.Add(time.Duration(duration) * time.Minute))
	}

	return cal.Serialize(), nil
}

func eventSummary(e calendar.Event) string {
	if e.Title != "" {
		return e.Title
	}
	return fmt.Sprintf("Servicio %s", e.ID)
}

func eventDescription(e calendar.Event) string {
	desc := fmt.Sprintf("Cliente: %s\nTécnico: %s", e.Client, e.Technician)
	if e.Phone != "" {
		desc += "\nTeléfono: " + e.Phone
	}
	if e.Notes != "" {
		desc += "\n" + e.Notes
	}
	return desc
}
