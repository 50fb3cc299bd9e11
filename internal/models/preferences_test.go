package models

import (
	"testing"
	"time"
)

func TestUpdateFrequencyInterval(t *testing.T) {
	tests := []struct {
		frequency UpdateFrequency
		want      time.Duration
	}{
		{FrequencyFrequent, 30 * time.Second},
		{FrequencyNormal, 60 * time.Second},
		{FrequencyBatterySaver, 5 * time.Minute},
		{"", 60 * time.Second},
		{"bogus", 60 * time.Second},
	}

	for _, tt := range tests {
		if got := tt.frequency.Interval(); got != tt.want {
			t.Errorf("Interval(%q) = %v, want %v", tt.frequency, got, tt.want)
		}
	}
}

func TestPreferencePatchApply(t *testing.T) {
	prefs := DefaultPreferences()

	share := false
	freq := FrequencyBatterySaver
	patch := PreferencePatch{ShareLocation: &share, UpdateFrequency: &freq}
	patch.Apply(&prefs)

	if prefs.ShareLocation {
		t.Error("ShareLocation not patched")
	}
	if prefs.UpdateFrequency != FrequencyBatterySaver {
		t.Errorf("UpdateFrequency = %q", prefs.UpdateFrequency)
	}
	if !prefs.EnableTracking || !prefs.EnableGeofencing {
		t.Errorf("nil patch fields changed: %+v", prefs)
	}

	// An empty patch is a no-op.
	before := prefs
	PreferencePatch{}.Apply(&prefs)
	if prefs != before {
		t.Errorf("empty patch changed preferences: %+v", prefs)
	}
}
