package entity

import "time"

// TrackingEvent is an analytics event enriched with the user and provider it concerns.
type TrackingEvent struct {
	ID         string         `json:"messageId"`
	Name       string         `json:"event"`
	UserID     string         `json:"userId"`
	Provider   string         `json:"provider"`
	Properties map[string]any `json:"properties,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// CardIntegrationState is one provider's entry in the card integration storage namespace.
type CardIntegrationState struct {
	Flags         map[string]bool `json:"flags"`
	LastUpdatedAt string          `json:"last_updated_at"`
}
