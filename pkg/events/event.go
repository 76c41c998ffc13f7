package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "RECOMMENDATION_SERVED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// RecommendationServed is emitted after every completed pipeline run,
// including cache hits.
func RecommendationServed(query, outcome string, candidates int, cached bool) Event {
	return BaseEvent{
		Type: "RECOMMENDATION_SERVED",
		Data: map[string]interface{}{
			"query":      query,
			"outcome":    outcome,
			"candidates": candidates,
			"cached":     cached,
		},
		OccurredAt: time.Now(),
	}
}
