package db

import (
	"fmt"

	"github.com/tfkr-ae/foundry/domain"
)

var _ domain.SettingsRepository = (*Repository)(nil)

type dbSettings struct {
	CompanyName string `db:"company_name"`
	Tagline     string `db:"tagline"`
	About       string `db:"about"`
	Email       string `db:"email"`
	Phone       string `db:"phone"`
	Address     string `db:"address"`
}

// GetSettings retrieves the site-wide company details stored in the app table.
func (repo *Repository) GetSettings() (*domain.Settings, error) {
	var row dbSettings
	query := `SELECT company_name, tagline, about, email, phone, address FROM app LIMIT 1`

	if err := repo.dbConn.Get(&row, query); err != nil {
		return nil, fmt.Errorf("getting settings: %w", err)
	}
	settings := domain.Settings(row)
	return &settings, nil
}

// UpdateSettings overwrites the stored settings. Empty fields keep their current value.
func (repo *Repository) UpdateSettings(settings *domain.Settings) error {
	query := `UPDATE app SET
	              company_name = COALESCE(NULLIF(:company_name, ''), company_name),
	              tagline      = COALESCE(NULLIF(:tagline, ''), tagline),
	              about        = COALESCE(NULLIF(:about, ''), about),
	              email        = COALESCE(NULLIF(:email, ''), email),
	              phone        = COALESCE(NULLIF(:phone, ''), phone),
	              address      = COALESCE(NULLIF(:address, ''), address)`

	row := dbSettings(*settings)
	result, err := repo.dbConn.NamedExec(query, &row)
	if err != nil {
		return fmt.Errorf("updating settings: %w", err)
	}
	return checkAffected(result, "settings row", "app")
}
