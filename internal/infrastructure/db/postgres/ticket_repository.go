package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
	"github.com/DevHubFusionX/logi-backend/internal/core/ports"
)

var ticketColumns = []string{"id", "user_id", "shipment_id", "subject", "message", "status", "reply", "created_at", "updated_at"}

type TicketRepository struct {
	db *DB
}

func NewTicketRepository(db *DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) Create(ctx context.Context, t *domain.Ticket) (*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := psql.Insert("tickets").
		Columns(ticketColumns...).
		Values(t.ID, t.UserID, t.ShipmentID, t.Subject, t.Message, t.Status, nullableString(t.Reply), t.CreatedAt, t.UpdatedAt).
		ToSql()
	if err != nil {
		return nil, err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("insert ticket: %w", err)
	}
	return t, nil
}

func (r *TicketRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := psql.Select(ticketColumns...).From("tickets").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	t, err := scanTicket(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, fmt.Errorf("find ticket: %w", err)
	}
	return t, nil
}

func (r *TicketRepository) List(ctx context.Context, f ports.ListTicketsFilter) ([]*domain.Ticket, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	where := sq.And{sq.Expr("TRUE")}
	if f.UserID != nil {
		where = append(where, sq.Eq{"user_id": *f.UserID})
	}
	if f.Status != "" {
		where = append(where, sq.Eq{"status": f.Status})
	}

	countQuery, countArgs, err := psql.Select("COUNT(*)").From("tickets").Where(where).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tickets: %w", err)
	}

	query, args, err := psql.Select(ticketColumns...).
		From("tickets").
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
		return nil, 0, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*domain.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, t)
	}
	return tickets, total, rows.Err()
}

func (r *TicketRepository) Update(ctx context.Context, t *domain.Ticket) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := psql.Update("tickets").
		Set("status", t.Status).
		Set("reply", nullableString(t.Reply)).
		Set("updated_at", t.UpdatedAt).
		Where(sq.Eq{"id": t.ID}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var (
		t          domain.Ticket
		shipmentID sql.NullString
		reply      sql.NullString
	)
	if err := row.Scan(&t.ID, &t.UserID, &shipmentID, &t.Subject, &t.Message, &t.Status, &reply, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Reply = reply.String
	if shipmentID.Valid {
		id, err := uuid.Parse(shipmentID.String)
		if err != nil {
			return nil, fmt.Errorf("parse shipment_id: %w", err)
		}
		t.ShipmentID = &id
	}
	return &t, nil
}
