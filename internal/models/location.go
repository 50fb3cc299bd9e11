package models

// LocationSample represents a single position fix captured by a location provider.
// Samples are consumed and discarded after being forwarded to the merchant
// platform; they are only persisted as part of a QueuedUpdate.
type LocationSample struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  float64  `json:"accuracy"` // meters
	Altitude  *float64 `json:"altitude,omitempty"`
	Timestamp int64    `json:"timestamp"` // milliseconds since epoch
	Address   string   `json:"address,omitempty"`
}
