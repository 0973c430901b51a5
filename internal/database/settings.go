package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const settingsColumns = `id, adult_price_gross, vat_rate, currency, rounding_mode, prompt_pay_target, created_at, updated_at`

func scanSetting(row pgx.Row) (Setting, error) {
	var s Setting
	err := row.Scan(
		&s.ID,
		&s.AdultPriceGross,
		&s.VatRate,
		&s.Currency,
		&s.RoundingMode,
		&s.PromptPayTarget,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

// GetSettings returns the singleton settings row.
func (q *Queries) GetSettings(ctx context.Context) (Setting, error) {
	row := q.db.QueryRow(ctx, `SELECT `+settingsColumns+` FROM settings WHERE id = 'singleton'`)
	return scanSetting(row)
}

type UpdateSettingsParams struct {
	AdultPriceGross pgtype.Numeric
	VatRate         pgtype.Numeric
	PromptPayTarget pgtype.Text
}

// UpdateSettings updates the admin-mutable fields of the singleton row.
// Null params keep the stored value.
func (q *Queries) UpdateSettings(ctx context.Context, arg UpdateSettingsParams) (Setting, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE settings SET
			adult_price_gross = COALESCE($1, adult_price_gross),
			vat_rate = COALESCE($2, vat_rate),
			prompt_pay_target = COALESCE($3, prompt_pay_target),
			updated_at = now()
		WHERE id = 'singleton'
		RETURNING `+settingsColumns,
		arg.AdultPriceGross, arg.VatRate, arg.PromptPayTarget)
	return scanSetting(row)
}

type CreateDefaultSettingsParams struct {
	AdultPriceGross pgtype.Numeric
	VatRate         pgtype.Numeric
	Currency        string
}

// CreateDefaultSettings inserts the singleton row if it does not exist yet.
// Called once at bootstrap; a concurrent insert loses silently.
func (q *Queries) CreateDefaultSettings(ctx context.Context, arg CreateDefaultSettingsParams) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO settings (id, adult_price_gross, vat_rate, currency, rounding_mode)
		VALUES ('singleton', $1, $2, $3, 'NONE')
		ON CONFLICT (id) DO NOTHING`,
		arg.AdultPriceGross, arg.VatRate, arg.Currency)
	return err
}
