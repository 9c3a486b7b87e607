package signals

import (
	"context"

	"github.com/maniartech/signals"
)

// ServicesRefreshedData contains data associated with a completed service fetch
type ServicesRefreshedData struct {
	ServiceCount    int
	TechnicianCount int
}

// SettingsChangedData contains data associated with a display settings update
type SettingsChangedData struct {
	DefaultView     string
	DisplayTimezone string
	RefreshMinutes  int
}

// Signal definitions using generics
var ServicesRefreshed = signals.New[ServicesRefreshedData]()
var SettingsChanged = signals.New[SettingsChangedData]()

// EmitServicesRefreshed emits a signal when a service fetch has been applied
func EmitServicesRefreshed(ctx context.Context, serviceCount, technicianCount int) {
	ServicesRefreshed.Emit(ctx, ServicesRefreshedData{
		ServiceCount:    serviceCount,
		TechnicianCount: technicianCount,
	})
}

// EmitSettingsChanged emits a signal when display settings are saved
func EmitSettingsChanged(ctx context.Context, defaultView, displayTimezone string, refreshMinutes int) {
	SettingsChanged.Emit(ctx, SettingsChangedData{
		DefaultView:     defaultView,
		DisplayTimezone: displayTimezone,
		RefreshMinutes:  refreshMinutes,
	})
}

// OnServicesRefreshed registers a handler for service refresh events
func OnServicesRefreshed(handler func(ctx context.Context, data ServicesRefreshedData), key ...string) {
	if len(key) > 0 {
		ServicesRefreshed.AddListener(handler, key[0])
	} else {
		ServicesRefreshed.AddListener(handler)
	}
}

// OnSettingsChanged registers a handler for settings change events
func OnSettingsChanged(handler func(ctx context.Context, data SettingsChangedData), key ...string) {
	if len(key) > 0 {
		SettingsChanged.AddListener(handler, key[0])
	} else {
		SettingsChanged.AddListener(handler)
	}
}
