package store

// Keys shared by the foreground service, the background task handler and the
// CLI. These names are part of the on-device storage contract.
const (
	KeyPreferences  = "userLocationPreferences"
	KeyUpdateQueue  = "locationUpdateQueue"
	KeyTrackingFlag = "isLocationTracking"
	KeyUserID       = "userId"
	KeyDeviceID     = "deviceId"
)
