package models

import "time"

// UpdateFrequency selects how aggressively the agent polls for position fixes.
type UpdateFrequency string

const (
	FrequencyFrequent     UpdateFrequency = "frequent"
	FrequencyNormal       UpdateFrequency = "normal"
	FrequencyBatterySaver UpdateFrequency = "battery_saver"
)

// Interval maps an update frequency to its polling interval. Unrecognized
// values fall back to the normal 60 second interval.
func (f UpdateFrequency) Interval() time.Duration {
	switch f {
	case FrequencyFrequent:
		return 30 * time.Second
	case FrequencyBatterySaver:
		return 5 * time.Minute
	default:
		return 60 * time.Second
	}
}

// TrackingPreferences holds the user's consent toggles and polling tier.
// EnableTracking, EnableGeofencing and ShareLocation are advisory in the
// current design: they are loaded, cached and surfaced but not gated on
// before acting.
type TrackingPreferences struct {
	EnableTracking   bool            `json:"enableTracking"`
	EnableGeofencing bool            `json:"enableGeofencing"`
	UpdateFrequency  UpdateFrequency `json:"updateFrequency"`
	ShareLocation    bool            `json:"shareLocation"`
}

// DefaultPreferences returns the preferences assumed when none are persisted.
func DefaultPreferences() TrackingPreferences {
	return TrackingPreferences{
		EnableTracking:   true,
		EnableGeofencing: true,
		UpdateFrequency:  FrequencyNormal,
		ShareLocation:    true,
	}
}

// PreferencePatch is a partial preference update. Nil fields keep the value
// already persisted.
type PreferencePatch struct {
	EnableTracking   *bool            `json:"enableTracking,omitempty"`
	EnableGeofencing *bool            `json:"enableGeofencing,omitempty"`
	UpdateFrequency  *UpdateFrequency `json:"updateFrequency,omitempty"`
	ShareLocation    *bool            `json:"shareLocation,omitempty"`
}

// Apply merges the patch into prefs, field by field.
func (p PreferencePatch) Apply(prefs *TrackingPreferences) {
	if p.EnableTracking != nil {
		prefs.EnableTracking = *p.EnableTracking
	}
	if p.EnableGeofencing != nil {
		prefs.EnableGeofencing = *p.EnableGeofencing
	}
	if p.UpdateFrequency != nil {
		prefs.UpdateFrequency = *p.UpdateFrequency
	}
	if p.ShareLocation != nil {
		prefs.ShareLocation = *p.ShareLocation
	}
}
