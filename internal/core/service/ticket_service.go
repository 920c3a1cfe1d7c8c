package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
	"github.com/DevHubFusionX/logi-backend/internal/core/ports"
)

// TicketService implements support-ticket use cases.
type TicketService struct {
	repo   ports.TicketRepository
	logger zerolog.Logger
}

func NewTicketService(repo ports.TicketRepository, logger zerolog.Logger) *TicketService {
	return &TicketService{repo: repo, logger: logger}
}

func (s *TicketService) Create(ctx context.Context, input ports.CreateTicketInput) (*domain.Ticket, error) {
	now := time.Now().UTC()
	ticket := &domain.Ticket{
		ID:         uuid.New(),
		UserID:     input.Actor.UserID,
		ShipmentID: input.ShipmentID,
		Subject:    input.Subject,
		Message:    input.Message,
		Status:     domain.TicketOpen,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := s.repo.Create(ctx, ticket)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("ticket_id", created.ID.String()).
		Str("user_id", input.Actor.UserID.String()).
		Msg("support ticket opened")
	return created, nil
}

func (s *TicketService) Get(ctx context.Context, id uuid.UUID, actor ports.Actor) (*domain.Ticket, error) {
	ticket, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && ticket.UserID != actor.UserID {
		return nil, domain.ErrTicketNotFound
	}
	return ticket, nil
}

func (s *TicketService) List(ctx context.Context, actor ports.Actor, status string, page, limit int) ([]*domain.Ticket, int64, error) {
	if status != "" && !domain.IsValidTicketStatus(domain.TicketStatus(status)) {
		return nil, 0, domain.ErrTicketNotFound
	}

	filter := ports.ListTicketsFilter{
		Status: status,
		Page:   normalizePage(page),
		Limit:  normalizeLimit(limit),
	}
	if !actor.IsAdmin() {
		userID := actor.UserID
		filter.UserID = &userID
	}
	return s.repo.List(ctx, filter)
}

// Update applies admin status/reply changes. Only admins may touch tickets
// after creation; closed tickets can only be reopened by setting a new status.
func (s *TicketService) Update(ctx context.Context, id uuid.UUID, actor ports.Actor, input ports.UpdateTicketInput) (*domain.Ticket, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	ticket, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Status != nil {
		next := domain.TicketStatus(*input.Status)
		if !domain.IsValidTicketStatus(next) {
			return nil, domain.ErrTicketNotFound
		}
		ticket.Status = next
	}
	if input.Reply != nil {
		if ticket.Status == domain.TicketClosed {
			return nil, domain.ErrTicketClosed
		}
		ticket.Reply = *input.Reply
	}
	ticket.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}
