package calendar

import (
	"strings"
	"time"

	"github.com/wparra-sinapsiscode/frioservice-sub001/internal/constants"
)

// FilterAll is the wildcard value for the single-valued filter fields
const FilterAll = "todos"

// Criteria describes the active calendar filters. Types is a toggle set of
// filter categories; the other fields are single values or the "todos"
// wildcard.
type Criteria struct {
	Types      []constants.TypeCategory
	Technician string // "todos" or exact display name
	Status     string // "todos" or lowercase status token
	Priority   string // "todos" or lowercase priority token
}

// DefaultCriteria returns the filters the calendar starts with: both type
// categories active and every single-valued field on the wildcard.
func DefaultCriteria() Criteria {
	return Criteria{
		Types:      constants.GetAllTypeCategories(),
		Technician: FilterAll,
		Status:     FilterAll,
		Priority:   FilterAll,
	}
}

// HasType reports whether the category is in the active toggle set
func (c Criteria) HasType(cat constants.TypeCategory) bool {
	for _, t := range c.Types {
		if t == cat {
			return true
		}
	}
	return false
}

// Filter returns the subsequence of events passing every active clause,
// preserving the original relative order. The type clause only applies when
// the category set is non-empty.
//
// The technician clause is exact string equality against the derived display
// name. Inherited behavior: a case or format mismatch silently drops matches.
func Filter(events []Event, c Criteria) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if !matches(e, c) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func matches(e Event, c Criteria) bool {
	if len(c.Types) > 0 && !typeInCategories(constants.ServiceType(strings.ToUpper(e.Type)), c.Types) {
		return false
	}
	if c.Technician != FilterAll && c.Technician != e.Technician {
		return false
	}
	if c.Status != FilterAll && constants.ServiceStatus(strings.ToUpper(c.Status)) != e.Status {
		return false
	}
	if c.Priority != FilterAll && constants.ServicePriority(strings.ToUpper(c.Priority)) != e.Priority {
		return false
	}
	return true
}

func typeInCategories(svcType constants.ServiceType, cats []constants.TypeCategory) bool {
	for _, cat := range cats {
		for _, t := range cat.Types() {
			if t == svcType {
				return true
			}
		}
	}
	return false
}

// EventsForDate returns the events scheduled on the given calendar date,
// compared against the date formatted as "YYYY-MM-DD" in UTC. Unscheduled
// events (empty Date) never match.
func EventsForDate(events []Event, date time.Time) []Event {
	key := date.UTC().Format(dateLayout)
	out := make([]Event, 0)
	for _, e := range events {
		if e.Date != "" && e.Date == key {
			out = append(out, e)
		}
	}
	return out
}

// BucketByDate groups events by their Date key for grid rendering.
// Unscheduled events are excluded.
func BucketByDate(events []Event) map[string][]Event {
	buckets := make(map[string][]Event)
	for _, e := range events {
		if e.Date == "" {
			continue
		}
		buckets[e.Date] = append(buckets[e.Date], e)
	}
	return buckets
}
