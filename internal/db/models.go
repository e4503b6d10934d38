package db

import "time"

// RememberedValue is one remembered entry for a browser.
// Value holds JSON; the browser is identified by its device cookie.
type RememberedValue struct {
	DeviceID  string    `json:"device_id" db:"device_id"`
	Key       string    `json:"key" db:"key"`
	Value     string    `json:"value" db:"value"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewRememberedValue creates an entry expiring after ttl
func NewRememberedValue(deviceID, key, value string, ttl time.Duration) *RememberedValue {
	now := time.Now()
	return &RememberedValue{
		DeviceID:  deviceID,
		Key:       key,
		Value:     value,
		ExpiresAt: now.Add(ttl),
		UpdatedAt: now,
	}
}
