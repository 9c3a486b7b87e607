package calendar

import (
	"strings"
	"time"

	"github.com/wparra-sinapsiscode/frioservice-sub001/internal/constants"
	"github.com/wparra-sinapsiscode/frioservice-sub001/internal/provider"
)

// Display defaults for absent fields. The UI is Spanish-facing, so the
// literals are part of the contract, not translatable labels.
const (
	NoTimeLabel       = "Sin hora"
	NoClientLabel     = "Cliente no especificado"
	NoTechnicianLabel = "Sin asignar"
	dateLayout        = "2006-01-02"
	timeOfDayLayout   = "15:04"
	scheduledAtLayout = time.RFC3339
	localAtLayout     = "2006-01-02T15:04:05"
)

// Display color tokens, resolved once per event by strict precedence
const (
	ColorUrgent     = "#dc2626"
	ColorHigh       = "#ea580c"
	ColorCancelled  = "#6b7280"
	ColorCompleted  = "#16a34a"
	ColorInProgress = "#2563eb"
	ColorConfirmed  = "#0891b2"
	ColorDefault    = "#64748b"

	colorMaintenance  = "#0d9488"
	colorRepair       = "#f59e0b"
	colorInstallation = "#7c3aed"
	colorInspection   = "#4f46e5"
	colorEmergency    = "#e11d48"
	colorCleaning     = "#0ea5e9"
	colorConsultation = "#8b5cf6"
)

// Event is the display-ready projection of a service record. It is immutable
// once produced: views derive from it, never mutate it.
type Event struct {
	ID         string                    `json:"id"`
	Title      string                    `json:"title"`
	Client     string                    `json:"client"`
	Type       string                    `json:"type"` // lowercase service type token
	Status     constants.ServiceStatus   `json:"status"`
	Priority   constants.ServicePriority `json:"priority"`
	Date       string                    `json:"date"` // "YYYY-MM-DD", empty when the record is unscheduled
	Time       string                    `json:"time"` // "HH:MM" in the display zone, or "Sin hora"
	Technician string                    `json:"technician"`
	Equipment  []string                  `json:"equipmentIds"`
	Duration   int                       `json:"estimatedDuration"`
	Address    string                    `json:"address"`
	Phone      string                    `json:"contactPhone"`
	Notes      string                    `json:"clientNotes"`
	Color      string                    `json:"color"`
}

// MapEvents transforms raw service records into calendar events. It is total:
// absent or unknown fields degrade to display defaults, never errors.
// Events with an empty Date are unreachable by the date-bucketed views and
// are skipped by EventsForDate.
func MapEvents(records []provider.ServiceRecord, loc *time.Location) []Event {
	events := make([]Event, 0, len(records))
	for _, rec := range records {
		events = append(events, mapEvent(rec, loc))
	}
	return events
}

func mapEvent(rec provider.ServiceRecord, loc *time.Location) Event {
	status := constants.ServiceStatus(strings.ToUpper(rec.Status))
	priority := constants.ServicePriority(strings.ToUpper(rec.Priority))
	svcType := constants.ServiceType(strings.ToUpper(rec.Type))

	return Event{
		ID:         rec.ID,
		Title:      rec.Title,
		Client:     clientName(rec.Client),
		Type:       strings.ToLower(rec.Type),
		Status:     status,
		Priority:   priority,
		Date:       scheduledDate(rec.ScheduledDate),
		Time:       scheduledTime(rec.ScheduledDate, loc),
		Technician: technicianName(rec.Technician),
		Equipment:  rec.EquipmentIDs,
		Duration:   rec.EstimatedDuration,
		Address:    rec.Address,
		Phone:      rec.ContactPhone,
		Notes:      rec.ClientNotes,
		Color:      resolveColor(priority, status, svcType),
	}
}

// scheduledDate extracts the calendar-date part of the ISO datetime.
// This is deliberately a string operation: the date a record was scheduled
// for never shifts with the display timezone.
func scheduledDate(scheduledAt string) string {
	if scheduledAt == "" {
		return ""
	}
	if idx := strings.IndexByte(scheduledAt, 'T'); idx >= 0 {
		return scheduledAt[:idx]
	}
	return scheduledAt
}

// scheduledTime formats the time-of-day in the display zone, or returns the
// "Sin hora" label when the record is unscheduled or the timestamp is
// unparseable. An offset-less timestamp is taken as wall time in the display
// zone, matching how such values were interpreted upstream.
func scheduledTime(scheduledAt string, loc *time.Location) string {
	if scheduledAt == "" {
		return NoTimeLabel
	}
	if t, err := time.Parse(scheduledAtLayout, scheduledAt); err == nil {
		return t.In(loc).Format(timeOfDayLayout)
	}
	if t, err := time.ParseInLocation(localAtLayout, scheduledAt, loc); err == nil {
		return t.Format(timeOfDayLayout)
	}
	return NoTimeLabel
}

func clientName(c *provider.ClientRef) string {
	if c != nil {
		if c.CompanyName != "" {
			return c.CompanyName
		}
		if c.ContactPerson != "" {
			return c.ContactPerson
		}
	}
	return NoClientLabel
}

func technicianName(t *provider.TechnicianRef) string {
	if t != nil {
		if t.Name != "" {
			return t.Name
		}
		if t.FirstName != "" || t.LastName != "" {
			return t.FirstName + " " + t.LastName
		}
	}
	return NoTechnicianLabel
}

// resolveColor picks the display color by strict precedence: urgency
// dominates workflow status, which dominates the per-type palette. Swapping
// the priority/status order changes visible results, so the order here is
// load-bearing.
func resolveColor(priority constants.ServicePriority, status constants.ServiceStatus, svcType constants.ServiceType) string {
	switch priority {
	case constants.PriorityUrgent:
		return ColorUrgent
	case constants.PriorityHigh:
		return ColorHigh
	}

	switch status {
	case constants.StatusCancelled:
		return ColorCancelled
	case constants.StatusCompleted:
		return ColorCompleted
	case constants.StatusInProgress:
		return ColorInProgress
	case constants.StatusConfirmed:
		return ColorConfirmed
	}

	return typeColor(svcType)
}

func typeColor(svcType constants.ServiceType) string {
	switch svcType {
	case constants.TypeMaintenance:
		return colorMaintenance
	case constants.TypeRepair:
		return colorRepair
	case constants.TypeInstallation:
		return colorInstallation
	case constants.TypeInspection:
		return colorInspection
	case constants.TypeEmergency:
		return colorEmergency
	case constants.TypeCleaning:
		return colorCleaning
	case constants.TypeConsultation:
		return colorConsultation
	default:
		return ColorDefault
	}
}
