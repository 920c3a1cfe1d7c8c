package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// DriverAvailability tracks whether a driver can take a new shipment.
type DriverAvailability string

const (
	DriverAvailable DriverAvailability = "available"
	DriverOnTrip    DriverAvailability = "on_trip"
	DriverOffline   DriverAvailability = "offline"
)

var ErrDriverNotFound = errors.New("driver not found")
var ErrDriverExists = errors.New("driver already exists")
var ErrDriverUnavailable = errors.New("driver is not available")

// IsValidAvailability reports whether a is a known availability state.
func IsValidAvailability(a DriverAvailability) bool {
	switch a {
	case DriverAvailable, DriverOnTrip, DriverOffline:
		return true
	}
	return false
}

// Driver is a courier operating a vehicle of one service tier. Plate numbers
// are unique across the fleet.
type Driver struct {
	ID           uuid.UUID          `json:"id"`
	UserID       *uuid.UUID         `json:"user_id,omitempty"`
	Name         string             `json:"name"`
	Phone        string             `json:"phone"`
	VehicleType  ServiceType        `json:"vehicle_type"`
	PlateNumber  string             `json:"plate_number"`
	Availability DriverAvailability `json:"availability"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}
