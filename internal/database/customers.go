package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const customerColumns = `id, phone, name, loyalty_stamps, created_at, updated_at`

func scanCustomer(row pgx.Row) (Customer, error) {
	var c Customer
	err := row.Scan(
		&c.ID,
		&c.Phone,
		&c.Name,
		&c.LoyaltyStamps,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func (q *Queries) GetCustomer(ctx context.Context, id uuid.UUID) (Customer, error) {
	row := q.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	return scanCustomer(row)
}

func (q *Queries) GetCustomerByPhone(ctx context.Context, phone string) (Customer, error) {
	row := q.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE phone = $1`, phone)
	return scanCustomer(row)
}

// GetCustomerForUpdate locks the customer row so stamp mutations serialize.
func (q *Queries) GetCustomerForUpdate(ctx context.Context, id uuid.UUID) (Customer, error) {
	row := q.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1 FOR UPDATE`, id)
	return scanCustomer(row)
}

type CreateCustomerParams struct {
	Phone string
	Name  pgtype.Text
}

func (q *Queries) CreateCustomer(ctx context.Context, arg CreateCustomerParams) (Customer, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO customers (phone, name, loyalty_stamps)
		VALUES ($1, $2, 0)
		RETURNING `+customerColumns,
		arg.Phone, arg.Name)
	return scanCustomer(row)
}

// UpsertCustomerByPhone returns the existing customer for the phone number or
// creates one with zero stamps. Used by the open-bill flow.
func (q *Queries) UpsertCustomerByPhone(ctx context.Context, phone string) (Customer, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO customers (phone, loyalty_stamps)
		VALUES ($1, 0)
		ON CONFLICT (phone) DO UPDATE SET updated_at = now()
		RETURNING `+customerColumns,
		phone)
	return scanCustomer(row)
}

type UpdateCustomerNameParams struct {
	ID   uuid.UUID
	Name pgtype.Text
}

func (q *Queries) UpdateCustomerName(ctx context.Context, arg UpdateCustomerNameParams) (Customer, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE customers SET name = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+customerColumns,
		arg.ID, arg.Name)
	return scanCustomer(row)
}

type SetCustomerStampsParams struct {
	ID            uuid.UUID
	LoyaltyStamps int32
}

// SetCustomerStamps writes an absolute stamp count. Callers must hold the row
// lock (GetCustomerForUpdate) when deriving the new count from the old one.
func (q *Queries) SetCustomerStamps(ctx context.Context, arg SetCustomerStampsParams) (Customer, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE customers SET loyalty_stamps = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+customerColumns,
		arg.ID, arg.LoyaltyStamps)
	return scanCustomer(row)
}
