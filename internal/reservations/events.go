package reservations

import (
	"encoding/json"
	"time"
)

const (
	EventReservationCreated   = "ReservationCreated"
	EventReservationCancelled = "ReservationCancelled"
)

// Envelope v1: amplop event seragam untuk kanal notifikasi.
type Envelope struct {
	EventID       string          `json:"event_id"` // uuid
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"` // reservation id
	Payload       json.RawMessage `json:"payload"`
}

type ReservationCreatedPayload struct {
	Reservation Reservation `json:"reservation"`
	Items       []Item      `json:"items"`
}

type ReservationCancelledPayload struct {
	Reservation Reservation `json:"reservation"`
	Items       []Item      `json:"items"`
	Reason      string      `json:"reason,omitempty"`
}
