package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TicketStatus is the lifecycle state of a support ticket.
type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketResolved   TicketStatus = "resolved"
	TicketClosed     TicketStatus = "closed"
)

var ErrTicketNotFound = errors.New("ticket not found")
var ErrTicketClosed = errors.New("ticket is closed")

// IsValidTicketStatus reports whether s is a known ticket status.
func IsValidTicketStatus(s TicketStatus) bool {
	switch s {
	case TicketOpen, TicketInProgress, TicketResolved, TicketClosed:
		return true
	}
	return false
}

// Ticket is a customer support request, optionally tied to a shipment.
type Ticket struct {
	ID         uuid.UUID    `json:"id"`
	UserID     uuid.UUID    `json:"user_id"`
	ShipmentID *uuid.UUID   `json:"shipment_id,omitempty"`
	Subject    string       `json:"subject"`
	Message    string       `json:"message"`
	Status     TicketStatus `json:"status"`
	Reply      string       `json:"reply,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}
