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
	"github.com/DevHubFusionX/logi-backend/internal/core/ports"
)

var driverColumns = []string{"id", "user_id", "name", "phone", "vehicle_type", "plate_number", "availability", "created_at", "updated_at"}

type DriverRepository struct {
	db *DB
}

func NewDriverRepository(db *DB) *DriverRepository {
	return &DriverRepository{db: db}
}

// Create inserts a new driver. A unique violation on plate_number maps to
// domain.ErrDriverExists.
func (r *DriverRepository) Create(ctx context.Context, d *domain.Driver) (*domain.Driver, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := psql.Insert("drivers").
		Columns(driverColumns...).
		Values(d.ID, d.UserID, d.Name, d.Phone, d.VehicleType, d.PlateNumber, d.Availability, d.CreatedAt, d.UpdatedAt).
		ToSql()
	if err != nil {
		return nil, err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if pgErrCode(err) == pgerrcode.UniqueViolation {
			return nil, domain.ErrDriverExists
		}
		return nil, fmt.Errorf("insert driver: %w", err)
	}
	return d, nil
}

func (r *DriverRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Driver, error) {
	return r.findOne(ctx, sq.Eq{"id": id})
}

func (r *DriverRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Driver, error) {
	return r.findOne(ctx, sq.Eq{"user_id": userID})
}

func (r *DriverRepository) findOne(ctx context.Context, pred any) (*domain.Driver, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := psql.Select(driverColumns...).From("drivers").Where(pred).ToSql()
	if err != nil {
		return nil, err
	}

	d, err := scanDriver(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDriverNotFound
		}
		return nil, fmt.Errorf("find driver: %w", err)
	}
	return d, nil
}

func (r *DriverRepository) List(ctx context.Context, f ports.ListDriversFilter) ([]*domain.Driver, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	where := sq.And{sq.Expr("TRUE")}
	if f.Availability != "" {
		where = append(where, sq.Eq{"availability": f.Availability})
	}
	if f.VehicleType != "" {
		where = append(where, sq.Eq{"vehicle_type": f.VehicleType})
	}

	countQuery, countArgs, err := psql.Select("COUNT(*)").From("drivers").Where(where).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count drivers: %w", err)
	}

	query, args, err := psql.Select(driverColumns...).
		From("drivers").
		Where(where).
		OrderBy("created_at DESC").
		Limit(uint64(f.Limit)).
		Offset(uint64((f.Page - 1) * f.Limit)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list drivers: %w", err)
	}
	defer rows.Close()

	var drivers []*domain.Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, 0, err
		}
		drivers = append(drivers, d)
	}
	return drivers, total, rows.Err()
}

func (r *DriverRepository) Update(ctx context.Context, d *domain.Driver) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := psql.Update("drivers").
		Set("name", d.Name).
		Set("phone", d.Phone).
		Set("vehicle_type", d.VehicleType).
		Set("plate_number", d.PlateNumber).
		Set("availability", d.Availability).
		Set("updated_at", d.UpdatedAt).
		Where(sq.Eq{"id": d.ID}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if pgErrCode(err) == pgerrcode.UniqueViolation {
			return domain.ErrDriverExists
		}
		return fmt.Errorf("update driver: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrDriverNotFound
	}
	return nil
}

func (r *DriverRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := psql.Delete("drivers").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete driver: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrDriverNotFound
	}
	return nil
}

func scanDriver(row rowScanner) (*domain.Driver, error) {
	var (
		d      domain.Driver
		userID sql.NullString
	)
	if err := row.Scan(&d.ID, &userID, &d.Name, &d.Phone, &d.VehicleType, &d.PlateNumber, &d.Availability, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	if userID.Valid {
		id, err := uuid.Parse(userID.String)
		if err != nil {
			return nil, fmt.Errorf("parse user_id: %w", err)
		}
		d.UserID = &id
	}
	return &d, nil
}
