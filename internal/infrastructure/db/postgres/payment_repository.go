package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
)

var paymentColumns = []string{"id", "shipment_id", "provider", "reference", "amount", "currency", "status", "provider_event_id", "paid_at", "created_at", "updated_at"}

type PaymentRepository struct {
	db *DB
}

func NewPaymentRepository(db *DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := psql.Insert("payments").
		Columns(paymentColumns...).
		Values(p.ID, p.ShipmentID, p.Provider, p.Reference, p.Amount, p.Currency, p.Status, nullableString(p.ProviderEventID), p.PaidAt, p.CreatedAt, p.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if pgErrCode(err) == pgerrcode.UniqueViolation {
			return domain.ErrPaymentExists
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) FindByReference(ctx context.Context, reference string) (*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := psql.Select(paymentColumns...).
		From("payments").
		Where(sq.Eq{"reference": reference}).
		ToSql()
	if err != nil {
		return nil, err
	}

	p, err := scanPayment(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}
	return p, nil
}

// ListByShipment returns the shipment's payment attempts, newest first.
func (r *PaymentRepository) ListByShipment(ctx context.Context, shipmentID uuid.UUID) ([]*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := psql.Select(paymentColumns...).
		From("payments").
		Where(sq.Eq{"shipment_id": shipmentID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *PaymentRepository) Update(ctx context.Context, p *domain.Payment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := psql.Update("payments").
		Set("status", p.Status).
		Set("provider_event_id", nullableString(p.ProviderEventID)).
		Set("paid_at", p.PaidAt).
		Set("updated_at", p.UpdatedAt).
		Where(sq.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var (
		p       domain.Payment
		eventID sql.NullString
		paidAt  sql.NullTime
	)
	if err := row.Scan(&p.ID, &p.ShipmentID, &p.Provider, &p.Reference, &p.Amount, &p.Currency, &p.Status, &eventID, &paidAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.ProviderEventID = eventID.String
	if paidAt.Valid {
		t := paidAt.Time
		p.PaidAt = &t
	}
	return &p, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
