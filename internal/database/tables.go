package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const tableColumns = `id, code, name, status, current_bill_id, qr_secret, created_at, updated_at`

func scanTable(row pgx.Row) (Table, error) {
	var t Table
	err := row.Scan(
		&t.ID,
		&t.Code,
		&t.Name,
		&t.Status,
		&t.CurrentBillID,
		&t.QrSecret,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

// ListTables returns all tables ordered by code.
func (q *Queries) ListTables(ctx context.Context) ([]Table, error) {
	rows, err := q.db.Query(ctx, `SELECT `+tableColumns+` FROM tables ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (q *Queries) GetTable(ctx context.Context, id uuid.UUID) (Table, error) {
	row := q.db.QueryRow(ctx, `SELECT `+tableColumns+` FROM tables WHERE id = $1`, id)
	return scanTable(row)
}

func (q *Queries) GetTableByCode(ctx context.Context, code string) (Table, error) {
	row := q.db.QueryRow(ctx, `SELECT `+tableColumns+` FROM tables WHERE code = $1`, code)
	return scanTable(row)
}

// GetTableForUpdate locks the table row for the duration of the transaction.
// Serializes concurrent opens against the same table.
func (q *Queries) GetTableForUpdate(ctx context.Context, id uuid.UUID) (Table, error) {
	row := q.db.QueryRow(ctx, `SELECT `+tableColumns+` FROM tables WHERE id = $1 FOR UPDATE`, id)
	return scanTable(row)
}

type CreateTableParams struct {
	Code     string
	Name     string
	Status   TableStatus
	QrSecret string
}

func (q *Queries) CreateTable(ctx context.Context, arg CreateTableParams) (Table, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO tables (code, name, status, qr_secret)
		VALUES ($1, $2, $3, $4)
		RETURNING `+tableColumns,
		arg.Code, arg.Name, arg.Status, arg.QrSecret)
	return scanTable(row)
}

type UpdateTableParams struct {
	ID     uuid.UUID
	Name   string
	Status TableStatus
}

// UpdateTable renames a table or cycles its status. Refuses to touch a table
// with an open bill so occupancy stays owned by the bill state machine.
func (q *Queries) UpdateTable(ctx context.Context, arg UpdateTableParams) (Table, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE tables SET name = $2, status = $3, updated_at = now()
		WHERE id = $1 AND current_bill_id IS NULL
		RETURNING `+tableColumns,
		arg.ID, arg.Name, arg.Status)
	return scanTable(row)
}

type SetTableOccupancyParams struct {
	ID            uuid.UUID
	Status        TableStatus
	CurrentBillID pgtype.UUID
}

// SetTableOccupancy is the combined occupancy update: status and current bill
// change together so no intermediate state is observable.
func (q *Queries) SetTableOccupancy(ctx context.Context, arg SetTableOccupancyParams) (Table, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE tables SET status = $2, current_bill_id = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+tableColumns,
		arg.ID, arg.Status, arg.CurrentBillID)
	return scanTable(row)
}

func (q *Queries) CountTables(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, `SELECT count(*) FROM tables`).Scan(&n)
	return n, err
}
