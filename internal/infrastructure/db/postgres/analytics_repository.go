package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
)

// AnalyticsRepository computes the admin aggregate summary with GROUP BY
// queries. Timeouts are wider than the CRUD default since these scan whole
// tables.
type AnalyticsRepository struct {
	db *DB
}

const analyticsTimeout = 15 * time.Second

func NewAnalyticsRepository(db *DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) Summary(ctx context.Context) (*domain.AnalyticsSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, analyticsTimeout)
	defer cancel()

	summary := &domain.AnalyticsSummary{
		ByStatus:       make(map[domain.ShipmentStatus]int64),
		ByServiceType:  make(map[domain.ServiceType]int64),
		DriversByState: make(map[domain.DriverAvailability]int64),
	}

	if err := r.shipmentCounts(ctx, summary); err != nil {
		return nil, err
	}
	if err := r.serviceTypeCounts(ctx, summary); err != nil {
		return nil, err
	}
	if err := r.revenue(ctx, summary); err != nil {
		return nil, err
	}
	if err := r.openTickets(ctx, summary); err != nil {
		return nil, err
	}
	if err := r.driverCounts(ctx, summary); err != nil {
		return nil, err
	}
	if err := r.dailyCounts(ctx, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

func (r *AnalyticsRepository) shipmentCounts(ctx context.Context, s *domain.AnalyticsSummary) error {
	query, _, err := psql.Select("status", "COUNT(*)").From("shipments").GroupBy("status").ToSql()
	if err != nil {
		return err
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status domain.ShipmentStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return err
		}
		s.ByStatus[status] = count
		s.TotalShipments += count
	}
	return rows.Err()
}

func (r *AnalyticsRepository) serviceTypeCounts(ctx context.Context, s *domain.AnalyticsSummary) error {
	query, _, err := psql.Select("service_type", "COUNT(*)").From("shipments").GroupBy("service_type").ToSql()
	if err != nil {
		return err
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("count by service type: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tier domain.ServiceType
		var count int64
		if err := rows.Scan(&tier, &count); err != nil {
			return err
		}
		s.ByServiceType[tier] = count
	}
	return rows.Err()
}

func (r *AnalyticsRepository) revenue(ctx context.Context, s *domain.AnalyticsSummary) error {
	query, args, err := psql.Select("currency", "COALESCE(SUM(amount), 0)").
		From("payments").
		Where(sq.Eq{"status": domain.PaymentSucceeded}).
		GroupBy("currency").
		OrderBy("currency ASC").
		ToSql()
	if err != nil {
		return err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("sum revenue: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rev domain.RevenueByCurrency
		if err := rows.Scan(&rev.Currency, &rev.Amount); err != nil {
			return err
		}
		s.Revenue = append(s.Revenue, rev)
	}
	return rows.Err()
}

func (r *AnalyticsRepository) openTickets(ctx context.Context, s *domain.AnalyticsSummary) error {
	query, args, err := psql.Select("COUNT(*)").
		From("tickets").
		Where(sq.Eq{"status": []domain.TicketStatus{domain.TicketOpen, domain.TicketInProgress}}).
		ToSql()
	if err != nil {
		return err
	}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&s.OpenTickets); err != nil {
		return fmt.Errorf("count open tickets: %w", err)
	}
	return nil
}

func (r *AnalyticsRepository) driverCounts(ctx context.Context, s *domain.AnalyticsSummary) error {
	query, _, err := psql.Select("availability", "COUNT(*)").From("drivers").GroupBy("availability").ToSql()
	if err != nil {
		return err
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("count drivers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var state domain.DriverAvailability
		var count int64
		if err := rows.Scan(&state, &count); err != nil {
			return err
		}
		s.DriversByState[state] = count
	}
	return rows.Err()
}

func (r *AnalyticsRepository) dailyCounts(ctx context.Context, s *domain.AnalyticsSummary) error {
	since := time.Now().UTC().AddDate(0, 0, -7)
	query, args, err := psql.
		Select("TO_CHAR(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day", "COUNT(*)").
		From("shipments").
		Where(sq.GtOrEq{"created_at": since}).
		GroupBy("day").
		OrderBy("day ASC").
		ToSql()
	if err != nil {
		return err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("count daily shipments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var dc domain.DailyCount
		if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
			return err
		}
		s.CreatedLast7Days = append(s.CreatedLast7Days, dc)
	}
	return rows.Err()
}
