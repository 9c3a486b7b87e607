// Package constants provides shared domain constants for the FrioService calendar
package constants

import "fmt"

// FrioServiceIdentifier is the unique identifier used to mark calendar exports
// produced by this application
const FrioServiceIdentifier = "FrioService"

// ServiceStatus represents the workflow status of a service record
type ServiceStatus string

const (
	StatusPending    ServiceStatus = "PENDING"
	StatusConfirmed  ServiceStatus = "CONFIRMED"
	StatusInProgress ServiceStatus = "IN_PROGRESS"
	StatusCompleted  ServiceStatus = "COMPLETED"
	StatusCancelled  ServiceStatus = "CANCELLED"
	StatusOnHold     ServiceStatus = "ON_HOLD"
)

// IsValid checks if the status value is one of the known workflow statuses
func (s ServiceStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusOnHold:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s ServiceStatus) String() string {
	return string(s)
}

// ServicePriority represents the urgency of a service record
type ServicePriority string

const (
	PriorityLow    ServicePriority = "LOW"
	PriorityMedium ServicePriority = "MEDIUM"
	PriorityHigh   ServicePriority = "HIGH"
	PriorityUrgent ServicePriority = "URGENT"
)

// IsValid checks if the priority value is one of the known priorities
func (p ServicePriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// String returns the string representation of the priority
func (p ServicePriority) String() string {
	return string(p)
}

// ServiceType represents the kind of work a service record schedules
type ServiceType string

const (
	TypeMaintenance  ServiceType = "MAINTENANCE"
	TypeRepair       ServiceType = "REPAIR"
	TypeInstallation ServiceType = "INSTALLATION"
	TypeInspection   ServiceType = "INSPECTION"
	TypeEmergency    ServiceType = "EMERGENCY"
	TypeCleaning     ServiceType = "CLEANING"
	TypeConsultation ServiceType = "CONSULTATION"
)

// IsValid checks if the type value is one of the known service types
func (t ServiceType) IsValid() bool {
	switch t {
	case TypeMaintenance, TypeRepair, TypeInstallation, TypeInspection, TypeEmergency, TypeCleaning, TypeConsultation:
		return true
	}
	return false
}

// String returns the string representation of the service type
func (t ServiceType) String() string {
	return string(t)
}

// GetAllServiceTypes returns all valid service types
// This provides a consistent list for UI components
func GetAllServiceTypes() []ServiceType {
	return []ServiceType{
		TypeMaintenance,
		TypeRepair,
		TypeInstallation,
		TypeInspection,
		TypeEmergency,
		TypeCleaning,
		TypeConsultation,
	}
}

// TypeCategory groups service types into the two filter categories the
// calendar exposes: scheduled (preventive) work and corrective work.
type TypeCategory string

const (
	// CategoryScheduled covers planned work: maintenance, installations,
	// inspections, cleanings and consultations
	CategoryScheduled TypeCategory = "programado"
	// CategoryCorrective covers unplanned work: repairs and emergencies
	CategoryCorrective TypeCategory = "correctivo"
)

// IsValid checks if the category value is valid
func (c TypeCategory) IsValid() bool {
	return c == CategoryScheduled || c == CategoryCorrective
}

// String returns the string representation of the category
func (c TypeCategory) String() string {
	return string(c)
}

// Types expands a category into the service types it covers.
// An unknown category expands to nothing.
func (c TypeCategory) Types() []ServiceType {
	switch c {
	case CategoryScheduled:
		return []ServiceType{TypeMaintenance, TypeInstallation, TypeInspection, TypeCleaning, TypeConsultation}
	case CategoryCorrective:
		return []ServiceType{TypeRepair, TypeEmergency}
	default:
		return nil
	}
}

// ParseTypeCategory parses a string into a TypeCategory
// Returns an error if the value is invalid
func ParseTypeCategory(s string) (TypeCategory, error) {
	cat := TypeCategory(s)
	if !cat.IsValid() {
		return "", fmt.Errorf("invalid type category: %s (must be 'programado' or 'correctivo')", s)
	}
	return cat, nil
}

// GetAllTypeCategories returns all valid filter categories
func GetAllTypeCategories() []TypeCategory {
	return []TypeCategory{CategoryScheduled, CategoryCorrective}
}
