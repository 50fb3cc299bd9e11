package models

// QueuedUpdate is a location update that could not be delivered live and was
// parked in the persisted offline queue for later replay.
type QueuedUpdate struct {
	UserID         string  `json:"user_id"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	AccuracyMeters int     `json:"accuracy_meters"`
	DeviceID       string  `json:"device_id"`
	AppVersion     string  `json:"app_version"`
	Timestamp      int64   `json:"timestamp"` // milliseconds since epoch
}

// Request converts a queued update back into the wire payload used by the
// track endpoint.
func (u QueuedUpdate) Request() *TrackLocationRequest {
	return &TrackLocationRequest{
		UserID:         u.UserID,
		Latitude:       u.Latitude,
		Longitude:      u.Longitude,
		AccuracyMeters: u.AccuracyMeters,
		LocationSource: LocationSourceGPS,
		DeviceID:       u.DeviceID,
		AppVersion:     u.AppVersion,
	}
}
