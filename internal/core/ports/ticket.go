package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
)

// ListTicketsFilter carries query parameters for listing tickets.
// UserID scoping is decided by the service layer.
type ListTicketsFilter struct {
	UserID *uuid.UUID
	Status string
	Page   int
	Limit  int
}

// TicketRepository defines persistence operations for support tickets.
type TicketRepository interface {
	Create(ctx context.Context, t *domain.Ticket) (*domain.Ticket, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error)
	List(ctx context.Context, filter ListTicketsFilter) ([]*domain.Ticket, int64, error)
	Update(ctx context.Context, t *domain.Ticket) error
}

// CreateTicketInput carries the fields for opening a support ticket.
type CreateTicketInput struct {
	Actor      Actor
	ShipmentID *uuid.UUID
	Subject    string
	Message    string
}

// UpdateTicketInput carries the admin-editable ticket fields.
type UpdateTicketInput struct {
	Status *string
	Reply  *string
}

// TicketService defines support-ticket use cases.
type TicketService interface {
	Create(ctx context.Context, input CreateTicketInput) (*domain.Ticket, error)
	// Get returns the ticket; non-admins only see their own.
	Get(ctx context.Context, id uuid.UUID, actor Actor) (*domain.Ticket, error)
	// List returns the actor's tickets; admins see all.
	List(ctx context.Context, actor Actor, status string, page, limit int) ([]*domain.Ticket, int64, error)
	// Update applies admin status/reply changes.
	Update(ctx context.Context, id uuid.UUID, actor Actor, input UpdateTicketInput) (*domain.Ticket, error)
}
