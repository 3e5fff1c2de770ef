// Package dto defines the HTTP request and response shapes.
package dto

// RegisterDeviceRequest is the body of a device registration POST.
type RegisterDeviceRequest struct {
	PushToken string `json:"pushToken"`
}

// PollResponse lists the serial numbers a device should re-fetch. Field
// names follow the Wallet web-service contract.
type PollResponse struct {
	SerialNumbers []string `json:"serialNumbers"`
	LastUpdated   string   `json:"lastUpdated"`
}

// LogRequest carries device-reported diagnostic lines.
type LogRequest struct {
	Logs []string `json:"logs"`
}
