package handler

import (
	"time"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
	"github.com/DevHubFusionX/logi-backend/internal/core/ports"
)

type addressRequest struct {
	Address string  `json:"address" validate:"required,max=255"`
	City    string  `json:"city" validate:"required,max=120"`
	Lat     float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng     float64 `json:"lng" validate:"gte=-180,lte=180"`
}

type packageRequest struct {
	WeightKg      float64 `json:"weight_kg" validate:"required,gt=0"`
	Description   string  `json:"description" validate:"max=500"`
	DeclaredValue float64 `json:"declared_value" validate:"gte=0"`
	Currency      string  `json:"currency" validate:"required,len=3"`
}

type createShipmentRequest struct {
	Origin      addressRequest `json:"origin" validate:"required"`
	Destination addressRequest `json:"destination" validate:"required"`
	Package     packageRequest `json:"package" validate:"required"`
	ServiceType string         `json:"service_type" validate:"required"`
	DistanceKm  float64        `json:"distance_km" validate:"required,gt=0"`
}

type updateShipmentRequest struct {
	Origin      *addressRequest `json:"origin"`
	Destination *addressRequest `json:"destination"`
	Package     *packageRequest `json:"package"`
	DistanceKm  *float64        `json:"distance_km" validate:"omitempty,gt=0"`
}

type transitionRequest struct {
	Status   string           `json:"status" validate:"required"`
	Note     string           `json:"note" validate:"max=500"`
	Location *locationRequest `json:"location"`
}

type locationRequest struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

type cancelShipmentRequest struct {
	Note string `json:"note" validate:"max=500"`
}

type assignDriverRequest struct {
	DriverID string `json:"driver_id" validate:"required,uuid"`
}

type shipmentResponse struct {
	ID                string          `json:"id"`
	TrackingNumber    string          `json:"tracking_number"`
	SenderID          string          `json:"sender_id"`
	DriverID          *string         `json:"driver_id,omitempty"`
	Origin            domain.Address  `json:"origin"`
	Destination       domain.Address  `json:"destination"`
	Package           domain.Package  `json:"package"`
	ServiceType       string          `json:"service_type"`
	DistanceKm        float64         `json:"distance_km"`
	Fee               float64         `json:"fee"`
	Status            string          `json:"status"`
	PaymentStatus     string          `json:"payment_status"`
	EstimatedDelivery time.Time       `json:"estimated_delivery"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	History           []eventResponse `json:"history,omitempty"`
}

type eventResponse struct {
	ID        string              `json:"id"`
	Status    string              `json:"status"`
	Note      string              `json:"note,omitempty"`
	Location  *domain.Coordinates `json:"location,omitempty"`
	Actor     string              `json:"actor"`
	CreatedAt time.Time           `json:"created_at"`
}

type shipmentListResponse struct {
	Items      []shipmentResponse `json:"items"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

func toAddressInput(a addressRequest) ports.AddressInput {
	return ports.AddressInput{Address: a.Address, City: a.City, Lat: a.Lat, Lng: a.Lng}
}

func toPackageInput(p packageRequest) ports.PackageInput {
	return ports.PackageInput{
		WeightKg:      p.WeightKg,
		Description:   p.Description,
		DeclaredValue: p.DeclaredValue,
		Currency:      p.Currency,
	}
}

func toShipmentResponse(s *domain.Shipment) shipmentResponse {
	resp := shipmentResponse{
		ID:                s.ID.String(),
		TrackingNumber:    s.TrackingNumber,
		SenderID:          s.SenderID.String(),
		Origin:            s.Origin,
		Destination:       s.Destination,
		Package:           s.Package,
		ServiceType:       string(s.ServiceType),
		DistanceKm:        s.DistanceKm,
		Fee:               s.Fee,
		Status:            string(s.Status),
		PaymentStatus:     string(s.PaymentStatus),
		EstimatedDelivery: s.EstimatedDelivery,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
	if s.DriverID != nil {
		id := s.DriverID.String()
		resp.DriverID = &id
	}
	return resp
}

func toEventResponses(events []*domain.TrackingEvent) []eventResponse {
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, eventResponse{
			ID:        e.ID.String(),
			Status:    string(e.Status),
			Note:      e.Note,
			Location:  e.Location,
			Actor:     e.Actor,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}
