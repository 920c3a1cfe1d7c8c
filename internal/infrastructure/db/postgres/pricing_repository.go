package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
)

var pricingColumns = []string{"id", "service_type", "base_price", "per_kg", "per_km", "active", "updated_by", "created_at", "updated_at"}

type PricingRepository struct {
	db *DB
}

func NewPricingRepository(db *DB) *PricingRepository {
	return &PricingRepository{db: db}
}

func (r *PricingRepository) Create(ctx context.Context, p *domain.PricingConfig) (*domain.PricingConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := psql.Insert("pricing_configs").
		Columns(pricingColumns...).
		Values(p.ID, p.ServiceType, p.BasePrice, p.PerKg, p.PerKm, p.Active, p.UpdatedBy, p.CreatedAt, p.UpdatedAt).
		ToSql()
	if err != nil {
		return nil, err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("insert pricing config: %w", err)
	}
	return p, nil
}

func (r *PricingRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.PricingConfig, error) {
	return r.findOne(ctx, sq.Eq{"id": id})
}

// FindActiveByServiceType returns the single active config for the tier.
func (r *PricingRepository) FindActiveByServiceType(ctx context.Context, serviceType domain.ServiceType) (*domain.PricingConfig, error) {
	return r.findOne(ctx, sq.Eq{"service_type": serviceType, "active": true})
}

func (r *PricingRepository) findOne(ctx context.Context, pred any) (*domain.PricingConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := psql.Select(pricingColumns...).From("pricing_configs").Where(pred).ToSql()
	if err != nil {
		return nil, err
	}

	var p domain.PricingConfig
	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&p.ID, &p.ServiceType, &p.BasePrice, &p.PerKg, &p.PerKm, &p.Active, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPricingNotFound
		}
		return nil, fmt.Errorf("find pricing config: %w", err)
	}
	return &p, nil
}

func (r *PricingRepository) List(ctx context.Context) ([]*domain.PricingConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, _, err := psql.Select(pricingColumns...).
		From("pricing_configs").
		OrderBy("service_type ASC", "active DESC", "updated_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list pricing configs: %w", err)
	}
	defer rows.Close()

	var configs []*domain.PricingConfig
	for rows.Next() {
		var p domain.PricingConfig
		if err := rows.Scan(&p.ID, &p.ServiceType, &p.BasePrice, &p.PerKg, &p.PerKm, &p.Active, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		configs = append(configs, &p)
	}
	return configs, rows.Err()
}

func (r *PricingRepository) Update(ctx context.Context, p *domain.PricingConfig) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := psql.Update("pricing_configs").
		Set("base_price", p.BasePrice).
		Set("per_kg", p.PerKg).
		Set("per_km", p.PerKm).
		Set("updated_by", p.UpdatedBy).
		Set("updated_at", p.UpdatedAt).
		Where(sq.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update pricing config: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrPricingNotFound
	}
	return nil
}

// Activate marks the config active and deactivates all sibling configs of the
// same service type in one transaction.
func (r *PricingRepository) Activate(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.db.inTx(ctx, func(tx *sql.Tx) error {
		deactivate, args, err := psql.Update("pricing_configs").
			Set("active", false).
			Where(sq.Expr("service_type = (SELECT service_type FROM pricing_configs WHERE id = ?)", id)).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, deactivate, args...); err != nil {
			return fmt.Errorf("deactivate siblings: %w", err)
		}

		activate, args, err := psql.Update("pricing_configs").
			Set("active", true).
			Where(sq.Eq{"id": id}).
			ToSql()
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, activate, args...)
		if err != nil {
			return fmt.Errorf("activate pricing config: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrPricingNotFound
		}
		return nil
	})
}

func (r *PricingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := psql.Delete("pricing_configs").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete pricing config: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrPricingNotFound
	}
	return nil
}
