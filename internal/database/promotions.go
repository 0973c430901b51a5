package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const promotionColumns = `id, key, name, type, value, days_of_week, active, expires_at, created_at, updated_at`

func scanPromotion(row pgx.Row) (Promotion, error) {
	var p Promotion
	err := row.Scan(
		&p.ID,
		&p.Key,
		&p.Name,
		&p.Type,
		&p.Value,
		&p.DaysOfWeek,
		&p.Active,
		&p.ExpiresAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func (q *Queries) listPromotions(ctx context.Context, sql string, args ...any) ([]Promotion, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var promos []Promotion
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, err
		}
		promos = append(promos, p)
	}
	return promos, rows.Err()
}

// ListPromotions returns every promotion, newest first (management view).
func (q *Queries) ListPromotions(ctx context.Context) ([]Promotion, error) {
	return q.listPromotions(ctx, `SELECT `+promotionColumns+` FROM promotions ORDER BY created_at DESC`)
}

// ListActivePromotions returns unexpired active promotions, newest first.
func (q *Queries) ListActivePromotions(ctx context.Context, now time.Time) ([]Promotion, error) {
	return q.listPromotions(ctx, `
		SELECT `+promotionColumns+` FROM promotions
		WHERE active AND (expires_at IS NULL OR expires_at > $1)
		ORDER BY created_at DESC`,
		now)
}

type ListEligiblePromotionsParams struct {
	Day string
	Now time.Time
}

// ListEligiblePromotions returns promotions that could apply to a bill right
// now, in creation order so the first-match-wins selection is deterministic.
func (q *Queries) ListEligiblePromotions(ctx context.Context, arg ListEligiblePromotionsParams) ([]Promotion, error) {
	return q.listPromotions(ctx, `
		SELECT `+promotionColumns+` FROM promotions
		WHERE active
		  AND (cardinality(days_of_week) = 0 OR $1 = ANY(days_of_week))
		  AND (expires_at IS NULL OR expires_at > $2)
		ORDER BY created_at, id`,
		arg.Day, arg.Now)
}

func (q *Queries) GetPromotion(ctx context.Context, id uuid.UUID) (Promotion, error) {
	row := q.db.QueryRow(ctx, `SELECT `+promotionColumns+` FROM promotions WHERE id = $1`, id)
	return scanPromotion(row)
}

type CreatePromotionParams struct {
	Key        string
	Name       string
	Type       PromotionType
	Value      pgtype.Numeric
	DaysOfWeek []string
	Active     bool
	ExpiresAt  pgtype.Timestamptz
}

func (q *Queries) CreatePromotion(ctx context.Context, arg CreatePromotionParams) (Promotion, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO promotions (key, name, type, value, days_of_week, active, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+promotionColumns,
		arg.Key, arg.Name, arg.Type, arg.Value, arg.DaysOfWeek, arg.Active, arg.ExpiresAt)
	return scanPromotion(row)
}

type UpdatePromotionParams struct {
	ID         uuid.UUID
	Name       string
	Type       PromotionType
	Value      pgtype.Numeric
	DaysOfWeek []string
	Active     bool
	ExpiresAt  pgtype.Timestamptz
}

// UpdatePromotion updates everything except the key, which is immutable.
func (q *Queries) UpdatePromotion(ctx context.Context, arg UpdatePromotionParams) (Promotion, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE promotions SET
			name = $2, type = $3, value = $4, days_of_week = $5,
			active = $6, expires_at = $7, updated_at = now()
		WHERE id = $1
		RETURNING `+promotionColumns,
		arg.ID, arg.Name, arg.Type, arg.Value, arg.DaysOfWeek, arg.Active, arg.ExpiresAt)
	return scanPromotion(row)
}

func (q *Queries) DeletePromotion(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var deleted uuid.UUID
	err := q.db.QueryRow(ctx, `DELETE FROM promotions WHERE id = $1 RETURNING id`, id).Scan(&deleted)
	return deleted, err
}
