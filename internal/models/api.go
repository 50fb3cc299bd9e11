package models

// LocationSourceGPS is the only location source the agent reports today.
const LocationSourceGPS = "gps"

// TrackLocationRequest is the payload for POST /merchants/location/track.
type TrackLocationRequest struct {
	UserID         string  `json:"user_id"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	AccuracyMeters int     `json:"accuracy_meters"`
	Address        *string `json:"address"`
	LocationSource string  `json:"location_source"`
	DeviceID       string  `json:"device_id"`
	AppVersion     string  `json:"app_version"`
}

// TrackLocationResponse carries the fields the agent consumes from the track
// endpoint. The merchant platform computes geofence proximity server-side and
// reports it back as flags.
type TrackLocationResponse struct {
	GeofenceTriggered bool   `json:"geofence_triggered"`
	CampaignQueued    bool   `json:"campaign_queued"`
	NearestMerchantID string `json:"nearest_merchant_id"`
}
