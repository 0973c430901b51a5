package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, full_name, hashed_password, role, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.FullName,
		&u.HashedPassword,
		&u.Role,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := q.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 AND is_active`, id)
	return scanUser(row)
}

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	row := q.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1 AND is_active`, username)
	return scanUser(row)
}

func (q *Queries) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := q.db.Query(ctx, `SELECT `+userColumns+` FROM users WHERE is_active ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

type CreateUserParams struct {
	Username       string
	FullName       string
	HashedPassword string
	Role           UserRole
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO users (username, full_name, hashed_password, role)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		arg.Username, arg.FullName, arg.HashedPassword, arg.Role)
	return scanUser(row)
}

type UpdateUserParams struct {
	ID       uuid.UUID
	FullName string
	Role     UserRole
}

func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE users SET full_name = $2, role = $3, updated_at = now()
		WHERE id = $1 AND is_active
		RETURNING `+userColumns,
		arg.ID, arg.FullName, arg.Role)
	return scanUser(row)
}

func (q *Queries) DeactivateUser(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var deactivated uuid.UUID
	err := q.db.QueryRow(ctx, `
		UPDATE users SET is_active = false, updated_at = now()
		WHERE id = $1 AND is_active
		RETURNING id`, id).Scan(&deactivated)
	return deactivated, err
}
