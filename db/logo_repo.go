package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tfkr-ae/foundry/domain"
)

var _ domain.LogoRepository = (*Repository)(nil)

type dbLogo struct {
	ID        uuid.UUID `db:"id"`
	Kind      string    `db:"kind"`
	Name      string    `db:"name"`
	ImageURL  string    `db:"image_url"`
	Position  int       `db:"position"`
	CreatedAt time.Time `db:"created_at"`
}

func toDomainLogo(l *dbLogo) *domain.Logo {
	return &domain.Logo{
		ID:        l.ID,
		Kind:      domain.LogoKind(l.Kind),
		Name:      l.Name,
		ImageURL:  l.ImageURL,
		Position:  l.Position,
		CreatedAt: l.CreatedAt,
	}
}

func (repo *Repository) selectLogos(query string, args ...any) ([]*domain.Logo, error) {
	var rows []*dbLogo
	if err := repo.dbConn.Select(&rows, query, args...); err != nil {
		return nil, err
	}

	logos := make([]*domain.Logo, len(rows))
	for i, row := range rows {
		logos[i] = toDomainLogo(row)
	}
	return logos, nil
}

// GetLogos retrieves every logo, certifications first.
func (repo *Repository) GetLogos() ([]*domain.Logo, error) {
	logos, err := repo.selectLogos(`SELECT id, kind, name, image_url, position, created_at
	          FROM logo ORDER BY kind, position, name`)
	if err != nil {
		return nil, fmt.Errorf("getting logos: %w", err)
	}
	return logos, nil
}

// GetLogosByKind retrieves the logos of one kind in display order.
func (repo *Repository) GetLogosByKind(kind domain.LogoKind) ([]*domain.Logo, error) {
	logos, err := repo.selectLogos(`SELECT id, kind, name, image_url, position, created_at
	          FROM logo WHERE kind = ? ORDER BY position, name`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("getting %s logos: %w", kind, err)
	}
	return logos, nil
}

// GetLogo retrieves a single logo by ID.
func (repo *Repository) GetLogo(id uuid.UUID) (*domain.Logo, error) {
	var row dbLogo
	query := `SELECT id, kind, name, image_url, position, created_at FROM logo WHERE id = ?`

	if err := repo.dbConn.Get(&row, query, id); err != nil {
		return nil, notFound(err, "logo", id)
	}
	return toDomainLogo(&row), nil
}

// CreateLogo inserts a new logo.
func (repo *Repository) CreateLogo(logo *domain.Logo) (uuid.UUID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, fmt.Errorf("generating uuid: %w", err)
	}
	logo.ID = id
	logo.CreatedAt = time.Now().UTC()

	query := `INSERT INTO logo (id, kind, name, image_url, position, created_at)
	          VALUES (?, ?, ?, ?, ?, ?)`

	_, err = repo.dbConn.Exec(query, logo.ID, string(logo.Kind), logo.Name, logo.ImageURL, logo.Position, logo.CreatedAt)
	if err != nil {
		return uuid.Nil, fmt.Errorf("creating logo %s: %w", logo.Name, err)
	}
	return id, nil
}

// DeleteLogo removes a logo.
func (repo *Repository) DeleteLogo(id uuid.UUID) error {
	result, err := repo.dbConn.Exec(`DELETE FROM logo WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting logo %s: %w", id, err)
	}
	return checkAffected(result, "logo", id)
}
