// Package provider supplies the service-listing data the calendar consumes.
// It is passed explicitly to the components that need it so the calendar core
// stays free of ambient global state.
package provider

import "context"

// ClientRef is the client block embedded in a service record.
// Either name field may be empty; the event mapper resolves a display name.
type ClientRef struct {
	ID            string `json:"id"`
	CompanyName   string `json:"companyName"`
	ContactPerson string `json:"contactPerson"`
}

// TechnicianRef is the technician block embedded in a service record
type TechnicianRef struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ServiceRecord is a unit of scheduled technician work as returned by the
// FrioService API. All fields are optional on the wire; absent values decode
// to zero values and are resolved to display defaults by the event mapper.
type ServiceRecord struct {
	ID                string         `json:"id"`
	Title             string         `json:"title"`
	Client            *ClientRef     `json:"client,omitempty"`
	Type              string         `json:"type"`
	Status            string         `json:"status"`
	Priority          string         `json:"priority"`
	ScheduledDate     string         `json:"scheduledDate,omitempty"` // ISO datetime, empty when unscheduled
	Technician        *TechnicianRef `json:"technician,omitempty"`
	EquipmentIDs      []string       `json:"equipmentIds,omitempty"`
	EstimatedDuration int            `json:"estimatedDuration"` // minutes
	Address           string         `json:"address"`
	ContactPhone      string         `json:"contactPhone"`
	ClientNotes       string         `json:"clientNotes"`
}

// Technician is an entry of the technician roster used by the filter dropdown
type Technician struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// DisplayName resolves the roster entry to the same display name the event
// mapper derives, so filter values compare against event technicians.
func (t Technician) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	if t.FirstName != "" || t.LastName != "" {
		return t.FirstName + " " + t.LastName
	}
	return ""
}

// Provider exposes the service listing to the calendar. Snapshot accessors
// return the last successfully fetched data and never block.
type Provider interface {
	// Services returns the current service record snapshot
	Services() []ServiceRecord
	// Technicians returns the current technician roster snapshot
	Technicians() []Technician
	// FetchServices refreshes both snapshots from the remote API
	FetchServices(ctx context.Context) error
	// IsLoading reports whether a fetch is currently in flight
	IsLoading() bool
}
