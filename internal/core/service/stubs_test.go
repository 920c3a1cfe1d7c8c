package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
	"github.com/DevHubFusionX/logi-backend/internal/core/ports"
)

// In-memory repository stubs shared by the service tests.

type shipmentRepoStub struct {
	byTracking map[string]*domain.Shipment
	events     map[uuid.UUID][]*domain.TrackingEvent
	createErr  error
	updateErr  error
}

func newShipmentRepoStub() *shipmentRepoStub {
	return &shipmentRepoStub{
		byTracking: make(map[string]*domain.Shipment),
		events:     make(map[uuid.UUID][]*domain.TrackingEvent),
	}
}

func (r *shipmentRepoStub) add(s *domain.Shipment) {
	r.byTracking[s.TrackingNumber] = s
}

func (r *shipmentRepoStub) Create(_ context.Context, s *domain.Shipment, initial *domain.TrackingEvent) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.byTracking[s.TrackingNumber] = s
	r.events[s.ID] = append(r.events[s.ID], initial)
	return nil
}

func (r *shipmentRepoStub) FindByTrackingNumber(_ context.Context, trackingNumber string) (*domain.Shipment, error) {
	s, ok := r.byTracking[trackingNumber]
	if !ok {
		return nil, domain.ErrShipmentNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *shipmentRepoStub) FindByIdempotencyKey(_ context.Context, senderID uuid.UUID, key string) (*domain.Shipment, error) {
	for _, s := range r.byTracking {
		if s.SenderID == senderID && s.IdempotencyKey == key {
			clone := *s
			return &clone, nil
		}
	}
	return nil, domain.ErrShipmentNotFound
}

func (r *shipmentRepoStub) FindByID(_ context.Context, id uuid.UUID) (*domain.Shipment, error) {
	for _, s := range r.byTracking {
		if s.ID == id {
			clone := *s
			return &clone, nil
		}
	}
	return nil, domain.ErrShipmentNotFound
}

func (r *shipmentRepoStub) List(_ context.Context, filter ports.ListShipmentsFilter) ([]*domain.Shipment, int64, error) {
	var out []*domain.Shipment
	for _, s := range r.byTracking {
		if filter.SenderID != nil && s.SenderID != *filter.SenderID {
			continue
		}
		if filter.DriverID != nil && (s.DriverID == nil || *s.DriverID != *filter.DriverID) {
			continue
		}
		if filter.Status != "" && string(s.Status) != filter.Status {
			continue
		}
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (r *shipmentRepoStub) Update(_ context.Context, s *domain.Shipment) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.byTracking[s.TrackingNumber] = s
	return nil
}

func (r *shipmentRepoStub) UpdateStatus(_ context.Context, s *domain.Shipment, event *domain.TrackingEvent) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.byTracking[s.TrackingNumber] = s
	r.events[s.ID] = append(r.events[s.ID], event)
	return nil
}

func (r *shipmentRepoStub) ListEvents(_ context.Context, shipmentID uuid.UUID) ([]*domain.TrackingEvent, error) {
	return r.events[shipmentID], nil
}

type driverRepoStub struct {
	byID     map[uuid.UUID]*domain.Driver
	byUserID map[uuid.UUID]*domain.Driver
}

func newDriverRepoStub() *driverRepoStub {
	return &driverRepoStub{
		byID:     make(map[uuid.UUID]*domain.Driver),
		byUserID: make(map[uuid.UUID]*domain.Driver),
	}
}

func (r *driverRepoStub) add(d *domain.Driver) {
	r.byID[d.ID] = d
	if d.UserID != nil {
		r.byUserID[*d.UserID] = d
	}
}

func (r *driverRepoStub) Create(_ context.Context, d *domain.Driver) (*domain.Driver, error) {
	r.add(d)
	return d, nil
}

func (r *driverRepoStub) FindByID(_ context.Context, id uuid.UUID) (*domain.Driver, error) {
	d, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrDriverNotFound
	}
	return d, nil
}

func (r *driverRepoStub) FindByUserID(_ context.Context, userID uuid.UUID) (*domain.Driver, error) {
	d, ok := r.byUserID[userID]
	if !ok {
		return nil, domain.ErrDriverNotFound
	}
	return d, nil
}

func (r *driverRepoStub) List(_ context.Context, _ ports.ListDriversFilter) ([]*domain.Driver, int64, error) {
	var out []*domain.Driver
	for _, d := range r.byID {
		out = append(out, d)
	}
	return out, int64(len(out)), nil
}

func (r *driverRepoStub) Update(_ context.Context, d *domain.Driver) error {
	r.byID[d.ID] = d
	return nil
}

func (r *driverRepoStub) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.byID, id)
	return nil
}

type pricingRepoStub struct {
	byID     map[uuid.UUID]*domain.PricingConfig
	activeBy map[domain.ServiceType]*domain.PricingConfig
}

func newPricingRepoStub() *pricingRepoStub {
	return &pricingRepoStub{
		byID:     make(map[uuid.UUID]*domain.PricingConfig),
		activeBy: make(map[domain.ServiceType]*domain.PricingConfig),
	}
}

func (r *pricingRepoStub) addActive(p *domain.PricingConfig) {
	p.Active = true
	r.byID[p.ID] = p
	r.activeBy[p.ServiceType] = p
}

func (r *pricingRepoStub) Create(_ context.Context, p *domain.PricingConfig) (*domain.PricingConfig, error) {
	r.byID[p.ID] = p
	return p, nil
}

func (r *pricingRepoStub) FindByID(_ context.Context, id uuid.UUID) (*domain.PricingConfig, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPricingNotFound
	}
	return p, nil
}

func (r *pricingRepoStub) FindActiveByServiceType(_ context.Context, serviceType domain.ServiceType) (*domain.PricingConfig, error) {
	p, ok := r.activeBy[serviceType]
	if !ok {
		return nil, domain.ErrPricingNotFound
	}
	return p, nil
}

func (r *pricingRepoStub) List(_ context.Context) ([]*domain.PricingConfig, error) {
	var out []*domain.PricingConfig
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, nil
}

func (r *pricingRepoStub) Update(_ context.Context, p *domain.PricingConfig) error {
	r.byID[p.ID] = p
	return nil
}

func (r *pricingRepoStub) Activate(_ context.Context, id uuid.UUID) error {
	p, ok := r.byID[id]
	if !ok {
		return domain.ErrPricingNotFound
	}
	for _, other := range r.byID {
		if other.ServiceType == p.ServiceType {
			other.Active = false
		}
	}
	p.Active = true
	r.activeBy[p.ServiceType] = p
	return nil
}

func (r *pricingRepoStub) Delete(_ context.Context, id uuid.UUID) error {
	p, ok := r.byID[id]
	if !ok {
		return domain.ErrPricingNotFound
	}
	if r.activeBy[p.ServiceType] == p {
		delete(r.activeBy, p.ServiceType)
	}
	delete(r.byID, id)
	return nil
}

type paymentRepoStub struct {
	byReference map[string]*domain.Payment
	updated     []*domain.Payment
}

func newPaymentRepoStub() *paymentRepoStub {
	return &paymentRepoStub{byReference: make(map[string]*domain.Payment)}
}

func (r *paymentRepoStub) Create(_ context.Context, p *domain.Payment) error {
	r.byReference[p.Reference] = p
	return nil
}

func (r *paymentRepoStub) FindByReference(_ context.Context, reference string) (*domain.Payment, error) {
	p, ok := r.byReference[reference]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *paymentRepoStub) ListByShipment(_ context.Context, shipmentID uuid.UUID) ([]*domain.Payment, error) {
	var out []*domain.Payment
	for _, p := range r.byReference {
		if p.ShipmentID == shipmentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *paymentRepoStub) Update(_ context.Context, p *domain.Payment) error {
	r.byReference[p.Reference] = p
	r.updated = append(r.updated, p)
	return nil
}

type dedupStub struct {
	seen     map[string]bool
	checkErr error
}

func newDedupStub() *dedupStub {
	return &dedupStub{seen: make(map[string]bool)}
}

func (d *dedupStub) IsDuplicate(_ context.Context, provider, eventID string) (bool, error) {
	if d.checkErr != nil {
		return false, d.checkErr
	}
	return d.seen[provider+":"+eventID], nil
}

func (d *dedupStub) Mark(_ context.Context, provider, eventID string) error {
	d.seen[provider+":"+eventID] = true
	return nil
}

type userRepoStub struct {
	byEmail map[string]*domain.User
	byID    map[uuid.UUID]*domain.User
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{
		byEmail: make(map[string]*domain.User),
		byID:    make(map[uuid.UUID]*domain.User),
	}
}

func (r *userRepoStub) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	if _, ok := r.byEmail[u.Email]; ok {
		return nil, domain.ErrUserExists
	}
	r.byEmail[u.Email] = u
	r.byID[u.ID] = u
	return u, nil
}

func (r *userRepoStub) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *userRepoStub) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *userRepoStub) List(_ context.Context, _, _ int) ([]*domain.User, int64, error) {
	var out []*domain.User
	for _, u := range r.byID {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (r *userRepoStub) Update(_ context.Context, u *domain.User) error {
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u
	return nil
}

type ticketRepoStub struct {
	byID map[uuid.UUID]*domain.Ticket
}

func newTicketRepoStub() *ticketRepoStub {
	return &ticketRepoStub{byID: make(map[uuid.UUID]*domain.Ticket)}
}

func (r *ticketRepoStub) Create(_ context.Context, t *domain.Ticket) (*domain.Ticket, error) {
	r.byID[t.ID] = t
	return t, nil
}

func (r *ticketRepoStub) FindByID(_ context.Context, id uuid.UUID) (*domain.Ticket, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *ticketRepoStub) List(_ context.Context, filter ports.ListTicketsFilter) ([]*domain.Ticket, int64, error) {
	var out []*domain.Ticket
	for _, t := range r.byID {
		if filter.UserID != nil && t.UserID != *filter.UserID {
			continue
		}
		if filter.Status != "" && string(t.Status) != filter.Status {
			continue
		}
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

func (r *ticketRepoStub) Update(_ context.Context, t *domain.Ticket) error {
	r.byID[t.ID] = t
	return nil
}
