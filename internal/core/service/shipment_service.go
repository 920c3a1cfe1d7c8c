package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/DevHubFusionX/logi-backend/internal/api/metrics"
	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
	"github.com/DevHubFusionX/logi-backend/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type ShipmentService struct {
	repo    ports.ShipmentRepository
	drivers ports.DriverRepository
	pricing ports.PricingService
	logger  zerolog.Logger
}

func NewShipmentService(repo ports.ShipmentRepository, drivers ports.DriverRepository, pricing ports.PricingService, logger zerolog.Logger) *ShipmentService {
	return &ShipmentService{repo: repo, drivers: drivers, pricing: pricing, logger: logger}
}

// Create quotes the fee and ETA for the requested tier and persists the
// shipment in its initial pending state with one tracking event. If an
// idempotency key is provided and already seen for this sender, the
// previously created shipment is returned without side effects.
func (s *ShipmentService) Create(ctx context.Context, input ports.CreateShipmentInput) (*domain.Shipment, error) {
	tier := domain.ServiceType(input.ServiceType)
	if !domain.IsValidServiceType(tier) {
		return nil, domain.ErrUnknownServiceType
	}

	if input.IdempotencyKey != "" {
		existing, err := s.repo.FindByIdempotencyKey(ctx, input.SenderID, input.IdempotencyKey)
		if err == nil {
			s.logger.Info().
				Str("idempotency_key", input.IdempotencyKey).
				Str("tracking_number", existing.TrackingNumber).
				Msg("idempotent replay")
			return existing, nil
		}
		if !errors.Is(err, domain.ErrShipmentNotFound) {
			return nil, err
		}
	}

	quote, err := s.pricing.QuoteFee(ctx, input.ServiceType, input.Package.WeightKg, input.DistanceKm)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	shipment := &domain.Shipment{
		ID:                uuid.New(),
		TrackingNumber:    generateTrackingNumber(),
		SenderID:          input.SenderID,
		Origin:            toAddress(input.Origin),
		Destination:       toAddress(input.Destination),
		Package: domain.Package{
			WeightKg:      input.Package.WeightKg,
			Description:   input.Package.Description,
			DeclaredValue: input.Package.DeclaredValue,
			Currency:      input.Package.Currency,
		},
		ServiceType:       tier,
		DistanceKm:        input.DistanceKm,
		Fee:               quote.Fee,
		Status:            domain.StatusPending,
		PaymentStatus:     domain.PaymentUnpaid,
		IdempotencyKey:    input.IdempotencyKey,
		EstimatedDelivery: quote.EstimatedDelivery,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	initial := &domain.TrackingEvent{
		ID:         uuid.New(),
		ShipmentID: shipment.ID,
		Status:     domain.StatusPending,
		Note:       "shipment created",
		Actor:      domain.RoleSender,
		CreatedAt:  now,
	}

	if err := s.repo.Create(ctx, shipment, initial); err != nil {
		s.logger.Error().Err(err).Msg("failed to create shipment")
		return nil, err
	}

	metrics.ShipmentsCreatedTotal.WithLabelValues(string(tier)).Inc()
	s.logger.Info().
		Str("tracking_number", shipment.TrackingNumber).
		Str("sender_id", input.SenderID.String()).
		Str("service_type", input.ServiceType).
		Float64("fee", quote.Fee).
		Msg("shipment created")

	return shipment, nil
}

// Get returns the shipment with its full tracking history, scoped to the actor.
func (s *ShipmentService) Get(ctx context.Context, trackingNumber string, actor ports.Actor) (*ports.ShipmentDetail, error) {
	shipment, err := s.findScoped(ctx, trackingNumber, actor)
	if err != nil {
		return nil, err
	}
	history, err := s.repo.ListEvents(ctx, shipment.ID)
	if err != nil {
		return nil, err
	}
	return &ports.ShipmentDetail{Shipment: shipment, History: history}, nil
}

// List returns a page of shipments. Senders see their own, drivers see their
// assignments, admins see everything.
func (s *ShipmentService) List(ctx context.Context, input ports.ListShipmentsInput) (*ports.ListShipmentsResult, error) {
	filter := ports.ListShipmentsFilter{
		Status:      input.Status,
		ServiceType: input.ServiceType,
		Search:      input.Search,
		DateFrom:    input.DateFrom,
		DateTo:      input.DateTo,
		Page:        normalizePage(input.Page),
		Limit:       normalizeLimit(input.Limit),
	}

	switch input.Actor.Role {
	case domain.RoleAdmin:
		// unrestricted
	case domain.RoleSender:
		senderID := input.Actor.UserID
		filter.SenderID = &senderID
	case domain.RoleDriver:
		driver, err := s.drivers.FindByUserID(ctx, input.Actor.UserID)
		if err != nil {
			return nil, err
		}
		filter.DriverID = &driver.ID
	default:
		return nil, domain.ErrForbidden
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit != 0 {
		totalPages++
	}

	return &ports.ListShipmentsResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// UpdateDetails applies sender edits to an unstarted shipment. Weight or
// distance changes re-derive the fee from the current rate card.
func (s *ShipmentService) UpdateDetails(ctx context.Context, trackingNumber string, actor ports.Actor, input ports.UpdateShipmentInput) (*domain.Shipment, error) {
	shipment, err := s.findScoped(ctx, trackingNumber, actor)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleDriver {
		return nil, domain.ErrForbidden
	}
	if !actor.IsAdmin() && shipment.Status != domain.StatusPending {
		return nil, domain.ErrShipmentNotEditable
	}

	if input.Origin != nil {
		shipment.Origin = toAddress(*input.Origin)
	}
	if input.Destination != nil {
		shipment.Destination = toAddress(*input.Destination)
	}
	if input.Package != nil {
		shipment.Package = domain.Package{
			WeightKg:      input.Package.WeightKg,
			Description:   input.Package.Description,
			DeclaredValue: input.Package.DeclaredValue,
			Currency:      input.Package.Currency,
		}
	}
	if input.DistanceKm != nil {
		shipment.DistanceKm = *input.DistanceKm
	}

	if input.Package != nil || input.DistanceKm != nil {
		quote, err := s.pricing.QuoteFee(ctx, string(shipment.ServiceType), shipment.Package.WeightKg, shipment.DistanceKm)
		if err != nil {
			return nil, err
		}
		shipment.Fee = quote.Fee
	}

	shipment.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, shipment); err != nil {
		return nil, err
	}

	s.logger.Info().Str("tracking_number", trackingNumber).Msg("shipment details updated")
	return shipment, nil
}

// Transition moves the shipment to the requested status, enforcing both the
// state machine and the caller's role, and appends one tracking event.
func (s *ShipmentService) Transition(ctx context.Context, input ports.TransitionInput) (*domain.Shipment, error) {
	next := domain.ShipmentStatus(input.NextStatus)
	if !domain.IsValidStatus(next) {
		return nil, domain.ErrUnknownStatus
	}

	shipment, err := s.findScoped(ctx, input.TrackingNumber, input.Actor)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeTransition(ctx, shipment, next, input.Actor); err != nil {
		return nil, err
	}
	if !shipment.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, shipment.Status, next)
	}

	prev := shipment.Status
	now := time.Now().UTC()
	shipment.Status = next
	shipment.UpdatedAt = now

	event := &domain.TrackingEvent{
		ID:         uuid.New(),
		ShipmentID: shipment.ID,
		Status:     next,
		Note:       input.Note,
		Actor:      input.Actor.Role,
		CreatedAt:  now,
	}
	if input.Location != nil {
		event.Location = &domain.Coordinates{Lat: input.Location.Lat, Lng: input.Location.Lng}
	}

	if err := s.repo.UpdateStatus(ctx, shipment, event); err != nil {
		s.logger.Error().Err(err).Str("tracking_number", shipment.TrackingNumber).Msg("status update failed")
		return nil, err
	}

	if shipment.DriverID != nil && releasesDriver(next) {
		s.releaseDriver(ctx, *shipment.DriverID)
	}

	metrics.StatusTransitionsTotal.WithLabelValues(string(prev), string(next)).Inc()
	s.logger.Info().
		Str("tracking_number", shipment.TrackingNumber).
		Str("from", string(prev)).
		Str("to", string(next)).
		Str("role", input.Actor.Role).
		Msg("shipment status changed")

	return shipment, nil
}

// Cancel transitions the shipment to cancelled on behalf of the actor.
func (s *ShipmentService) Cancel(ctx context.Context, trackingNumber string, actor ports.Actor, note string) (*domain.Shipment, error) {
	if note == "" {
		note = "shipment cancelled"
	}
	return s.Transition(ctx, ports.TransitionInput{
		TrackingNumber: trackingNumber,
		NextStatus:     string(domain.StatusCancelled),
		Note:           note,
		Actor:          actor,
	})
}

// AssignDriver attaches an available driver with a matching vehicle tier to a
// shipment that has not left the warehouse yet. Admin only.
func (s *ShipmentService) AssignDriver(ctx context.Context, trackingNumber string, driverID uuid.UUID, actor ports.Actor) (*domain.Shipment, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	shipment, err := s.repo.FindByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}
	if shipment.Status != domain.StatusPending && shipment.Status != domain.StatusProcessing {
		return nil, domain.ErrShipmentNotEditable
	}

	driver, err := s.drivers.FindByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if driver.Availability != domain.DriverAvailable {
		return nil, domain.ErrDriverUnavailable
	}
	if driver.VehicleType != shipment.ServiceType {
		return nil, fmt.Errorf("%w: vehicle tier %s does not match shipment tier %s",
			domain.ErrDriverUnavailable, driver.VehicleType, shipment.ServiceType)
	}

	now := time.Now().UTC()
	shipment.DriverID = &driver.ID
	shipment.UpdatedAt = now

	event := &domain.TrackingEvent{
		ID:         uuid.New(),
		ShipmentID: shipment.ID,
		Status:     shipment.Status,
		Note:       "driver " + driver.Name + " assigned",
		Actor:      domain.RoleAdmin,
		CreatedAt:  now,
	}
	if err := s.repo.UpdateStatus(ctx, shipment, event); err != nil {
		return nil, err
	}

	driver.Availability = domain.DriverOnTrip
	driver.UpdatedAt = now
	if err := s.drivers.Update(ctx, driver); err != nil {
		s.logger.Error().Err(err).Str("driver_id", driver.ID.String()).Msg("failed to mark driver on trip")
	}

	s.logger.Info().
		Str("tracking_number", trackingNumber).
		Str("driver_id", driverID.String()).
		Msg("driver assigned")
	return shipment, nil
}

// Events returns the tracking history, scoped like Get.
func (s *ShipmentService) Events(ctx context.Context, trackingNumber string, actor ports.Actor) ([]*domain.TrackingEvent, error) {
	shipment, err := s.findScoped(ctx, trackingNumber, actor)
	if err != nil {
		return nil, err
	}
	return s.repo.ListEvents(ctx, shipment.ID)
}

// findScoped loads the shipment and hides it from actors outside its scope.
// Scope misses surface as not-found rather than forbidden so tracking numbers
// cannot be probed.
func (s *ShipmentService) findScoped(ctx context.Context, trackingNumber string, actor ports.Actor) (*domain.Shipment, error) {
	shipment, err := s.repo.FindByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case domain.RoleAdmin:
		return shipment, nil
	case domain.RoleSender:
		if shipment.SenderID != actor.UserID {
			return nil, domain.ErrShipmentNotFound
		}
		return shipment, nil
	case domain.RoleDriver:
		driver, err := s.drivers.FindByUserID(ctx, actor.UserID)
		if err != nil {
			return nil, domain.ErrShipmentNotFound
		}
		if shipment.DriverID == nil || *shipment.DriverID != driver.ID {
			return nil, domain.ErrShipmentNotFound
		}
		return shipment, nil
	}
	return nil, domain.ErrForbidden
}

// authorizeTransition enforces who may request which status change:
// senders only cancel their own pending shipments, drivers only advance
// shipments through the transit states, admins are unrestricted.
func (s *ShipmentService) authorizeTransition(ctx context.Context, shipment *domain.Shipment, next domain.ShipmentStatus, actor ports.Actor) error {
	switch actor.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleSender:
		if next != domain.StatusCancelled || shipment.Status != domain.StatusPending {
			return domain.ErrForbidden
		}
		return nil
	case domain.RoleDriver:
		switch next {
		case domain.StatusInTransit, domain.StatusOutForDelivery, domain.StatusDelivered, domain.StatusReturned:
			return nil
		}
		return domain.ErrForbidden
	}
	return domain.ErrForbidden
}

// releasesDriver reports whether reaching status frees the assigned driver.
func releasesDriver(status domain.ShipmentStatus) bool {
	switch status {
	case domain.StatusDelivered, domain.StatusCancelled, domain.StatusReturned:
		return true
	}
	return false
}

func (s *ShipmentService) releaseDriver(ctx context.Context, driverID uuid.UUID) {
	driver, err := s.drivers.FindByID(ctx, driverID)
	if err != nil {
		s.logger.Error().Err(err).Str("driver_id", driverID.String()).Msg("failed to load driver for release")
		return
	}
	driver.Availability = domain.DriverAvailable
	driver.UpdatedAt = time.Now().UTC()
	if err := s.drivers.Update(ctx, driver); err != nil {
		s.logger.Error().Err(err).Str("driver_id", driverID.String()).Msg("failed to release driver")
	}
}

func toAddress(in ports.AddressInput) domain.Address {
	return domain.Address{
		Address:     in.Address,
		City:        in.City,
		Coordinates: domain.Coordinates{Lat: in.Lat, Lng: in.Lng},
	}
}

// generateTrackingNumber returns a unique tracking number in the format LG-XXXXXXXX.
func generateTrackingNumber() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("LG-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("LG-%08X", b)
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultPageLimit
	}
	if limit > maxPageLimit {
		return maxPageLimit
	}
	return limit
}
