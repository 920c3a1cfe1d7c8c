package domain

import (
	"time"

	"github.com/google/uuid"
)

// TrackingEvent is an immutable record appended to a shipment's history on
// every status change. Rows are never updated or deleted.
type TrackingEvent struct {
	ID         uuid.UUID      `json:"id"`
	ShipmentID uuid.UUID      `json:"shipment_id"`
	Status     ShipmentStatus `json:"status"`
	Note       string         `json:"note,omitempty"`
	Location   *Coordinates   `json:"location,omitempty"`
	Actor      string         `json:"actor"`
	CreatedAt  time.Time      `json:"created_at"`
}
