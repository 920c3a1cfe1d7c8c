package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
	"github.com/DevHubFusionX/logi-backend/internal/core/ports"
)

// shipmentColumns is the canonical column order scanned by scanShipment.
var shipmentColumns = []string{
	"id", "tracking_number", "sender_id", "driver_id",
	"origin_address", "origin_city", "origin_lat", "origin_lng",
	"dest_address", "dest_city", "dest_lat", "dest_lng",
	"weight_kg", "description", "declared_value", "currency",
	"service_type", "distance_km", "fee", "status", "payment_status",
	"idempotency_key", "estimated_delivery", "created_at", "updated_at",
}

type ShipmentRepository struct {
	db *DB
}

func NewShipmentRepository(db *DB) *ShipmentRepository {
	return &ShipmentRepository{db: db}
}

// Create inserts the shipment and its initial tracking event in one transaction.
func (r *ShipmentRepository) Create(ctx context.Context, s *domain.Shipment, initial *domain.TrackingEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.db.inTx(ctx, func(tx *sql.Tx) error {
		query, args, err := psql.Insert("shipments").
			Columns(shipmentColumns...).
			Values(shipmentValues(s)...).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			if pgErrCode(err) == pgerrcode.UniqueViolation {
				return fmt.Errorf("shipment %s: %w", s.TrackingNumber, err)
			}
			return fmt.Errorf("insert shipment: %w", err)
		}
		return insertTrackingEvent(ctx, tx, initial)
	})
}

// FindByTrackingNumber retrieves a shipment by tracking number.
func (r *ShipmentRepository) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Shipment, error) {
	return r.findOne(ctx, sq.Eq{"tracking_number": trackingNumber})
}

// FindByID retrieves a shipment by primary key.
func (r *ShipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Shipment, error) {
	return r.findOne(ctx, sq.Eq{"id": id})
}

// FindByIdempotencyKey retrieves the sender's shipment created with the given key.
func (r *ShipmentRepository) FindByIdempotencyKey(ctx context.Context, senderID uuid.UUID, key string) (*domain.Shipment, error) {
	return r.findOne(ctx, sq.Eq{"sender_id": senderID, "idempotency_key": key})
}

func (r *ShipmentRepository) findOne(ctx context.Context, pred any) (*domain.Shipment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := psql.Select(shipmentColumns...).
		From("shipments").
		Where(pred).
		ToSql()
	if err != nil {
		return nil, err
	}

	s, err := scanShipment(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrShipmentNotFound
		}
		return nil, fmt.Errorf("find shipment: %w", err)
	}
	return s, nil
}

// List returns a page of shipments matching the filter and the total count.
func (r *ShipmentRepository) List(ctx context.Context, f ports.ListShipmentsFilter) ([]*domain.Shipment, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	where := listPredicates(f)

	countQuery, countArgs, err := psql.Select("COUNT(*)").
		From("shipments").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count shipments: %w", err)
	}

	offset := uint64((f.Page - 1) * f.Limit)
	query, args, err := psql.Select(shipmentColumns...).
		From("shipments").
		Where(where).
		OrderBy("created_at DESC").
		Limit(uint64(f.Limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list shipments: %w", err)
	}
	defer rows.Close()

	var items []*domain.Shipment
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}

func listPredicates(f ports.ListShipmentsFilter) sq.And {
	where := sq.And{}
	if f.SenderID != nil {
		where = append(where, sq.Eq{"sender_id": *f.SenderID})
	}
	if f.DriverID != nil {
		where = append(where, sq.Eq{"driver_id": *f.DriverID})
	}
	if f.Status != "" {
		where = append(where, sq.Eq{"status": f.Status})
	}
	if f.ServiceType != "" {
		where = append(where, sq.Eq{"service_type": f.ServiceType})
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		where = append(where, sq.Or{
			sq.ILike{"tracking_number": pattern},
			sq.ILike{"dest_city": pattern},
		})
	}
	if !f.DateFrom.IsZero() {
		where = append(where, sq.GtOrEq{"created_at": f.DateFrom})
	}
	if !f.DateTo.IsZero() {
		where = append(where, sq.LtOrEq{"created_at": f.DateTo})
	}
	if len(where) == 0 {
		where = append(where, sq.Expr("TRUE"))
	}
	return where
}

// Update persists the mutable shipment fields.
func (r *ShipmentRepository) Update(ctx context.Context, s *domain.Shipment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := updateShipmentQuery(s)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update shipment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrShipmentNotFound
	}
	return nil
}

// UpdateStatus persists the shipment and appends the tracking event in one
// transaction, keeping the history consistent with the row it describes.
func (r *ShipmentRepository) UpdateStatus(ctx context.Context, s *domain.Shipment, event *domain.TrackingEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.db.inTx(ctx, func(tx *sql.Tx) error {
		query, args, err := updateShipmentQuery(s)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update shipment status: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrShipmentNotFound
		}
		return insertTrackingEvent(ctx, tx, event)
	})
}

// ListEvents returns the shipment's tracking history, oldest first.
func (r *ShipmentRepository) ListEvents(ctx context.Context, shipmentID uuid.UUID) ([]*domain.TrackingEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := psql.Select("id", "shipment_id", "status", "note", "lat", "lng", "actor", "created_at").
		From("tracking_events").
		Where(sq.Eq{"shipment_id": shipmentID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tracking events: %w", err)
	}
	defer rows.Close()

	var events []*domain.TrackingEvent
	for rows.Next() {
		var (
			e        domain.TrackingEvent
			note     sql.NullString
			lat, lng sql.NullFloat64
		)
		if err := rows.Scan(&e.ID, &e.ShipmentID, &e.Status, &note, &lat, &lng, &e.Actor, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Note = note.String
		if lat.Valid && lng.Valid {
			e.Location = &domain.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}

// --- helpers ---

func shipmentValues(s *domain.Shipment) []any {
	return []any{
		s.ID, s.TrackingNumber, s.SenderID, s.DriverID,
		s.Origin.Address, s.Origin.City, s.Origin.Coordinates.Lat, s.Origin.Coordinates.Lng,
		s.Destination.Address, s.Destination.City, s.Destination.Coordinates.Lat, s.Destination.Coordinates.Lng,
		s.Package.WeightKg, s.Package.Description, s.Package.DeclaredValue, s.Package.Currency,
		s.ServiceType, s.DistanceKm, s.Fee, s.Status, s.PaymentStatus,
		nullIfEmpty(s.IdempotencyKey), s.EstimatedDelivery, s.CreatedAt, s.UpdatedAt,
	}
}

// nullIfEmpty stores "" as NULL so the unique index only covers real keys.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func updateShipmentQuery(s *domain.Shipment) (string, []any, error) {
	return psql.Update("shipments").
		Set("driver_id", s.DriverID).
		Set("origin_address", s.Origin.Address).
		Set("origin_city", s.Origin.City).
		Set("origin_lat", s.Origin.Coordinates.Lat).
		Set("origin_lng", s.Origin.Coordinates.Lng).
		Set("dest_address", s.Destination.Address).
		Set("dest_city", s.Destination.City).
		Set("dest_lat", s.Destination.Coordinates.Lat).
		Set("dest_lng", s.Destination.Coordinates.Lng).
		Set("weight_kg", s.Package.WeightKg).
		Set("description", s.Package.Description).
		Set("declared_value", s.Package.DeclaredValue).
		Set("currency", s.Package.Currency).
		Set("distance_km", s.DistanceKm).
		Set("fee", s.Fee).
		Set("status", s.Status).
		Set("payment_status", s.PaymentStatus).
		Set("estimated_delivery", s.EstimatedDelivery).
		Set("updated_at", s.UpdatedAt).
		Where(sq.Eq{"id": s.ID}).
		ToSql()
}

func insertTrackingEvent(ctx context.Context, tx *sql.Tx, e *domain.TrackingEvent) error {
	var lat, lng any
	if e.Location != nil {
		lat, lng = e.Location.Lat, e.Location.Lng
	}
	query, args, err := psql.Insert("tracking_events").
		Columns("id", "shipment_id", "status", "note", "lat", "lng", "actor", "created_at").
		Values(e.ID, e.ShipmentID, e.Status, e.Note, lat, lng, e.Actor, e.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert tracking event: %w", err)
	}
	return nil
}

// rowScanner lets scanShipment work with both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanShipment(row rowScanner) (*domain.Shipment, error) {
	var (
		s        domain.Shipment
		driverID sql.NullString
		desc     sql.NullString
		idemKey  sql.NullString
		eta      time.Time
	)
	err := row.Scan(
		&s.ID, &s.TrackingNumber, &s.SenderID, &driverID,
		&s.Origin.Address, &s.Origin.City, &s.Origin.Coordinates.Lat, &s.Origin.Coordinates.Lng,
		&s.Destination.Address, &s.Destination.City, &s.Destination.Coordinates.Lat, &s.Destination.Coordinates.Lng,
		&s.Package.WeightKg, &desc, &s.Package.DeclaredValue, &s.Package.Currency,
		&s.ServiceType, &s.DistanceKm, &s.Fee, &s.Status, &s.PaymentStatus,
		&idemKey, &eta, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Package.Description = desc.String
	s.IdempotencyKey = idemKey.String
	s.EstimatedDelivery = eta
	if driverID.Valid {
		id, err := uuid.Parse(driverID.String)
		if err != nil {
			return nil, fmt.Errorf("parse driver_id: %w", err)
		}
		s.DriverID = &id
	}
	return &s, nil
}
