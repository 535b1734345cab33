package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tfkr-ae/foundry/domain"
)

var _ domain.LeaderRepository = (*Repository)(nil)

type dbLeader struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Role      string    `db:"role"`
	Bio       string    `db:"bio"`
	PhotoURL  string    `db:"photo_url"`
	Position  int       `db:"position"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func toDomainLeader(l *dbLeader) *domain.Leader {
	leader := domain.Leader(*l)
	return &leader
}

func fromDomainLeader(l *domain.Leader) *dbLeader {
	leader := dbLeader(*l)
	return &leader
}

// GetLeaders retrieves the leadership team in display order.
func (repo *Repository) GetLeaders() ([]*domain.Leader, error) {
	var rows []*dbLeader
	query := `SELECT id, name, role, bio, photo_url, position, created_at, updated_at
	          FROM leader ORDER BY position, name`

	if err := repo.dbConn.Select(&rows, query); err != nil {
		return nil, fmt.Errorf("getting leaders: %w", err)
	}

	leaders := make([]*domain.Leader, len(rows))
	for i, row := range rows {
		leaders[i] = toDomainLeader(row)
	}
	return leaders, nil
}

// GetLeader retrieves a single leader by ID.
func (repo *Repository) GetLeader(id uuid.UUID) (*domain.Leader, error) {
	var row dbLeader
	query := `SELECT id, name, role, bio, photo_url, position, created_at, updated_at
	          FROM leader WHERE id = ?`

	if err := repo.dbConn.Get(&row, query, id); err != nil {
		return nil, notFound(err, "leader", id)
	}
	return toDomainLeader(&row), nil
}

// CreateLeader inserts a new leader.
func (repo *Repository) CreateLeader(leader *domain.Leader) (uuid.UUID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, fmt.Errorf("generating uuid: %w", err)
	}

	now := time.Now().UTC()
	leader.ID = id
	leader.CreatedAt = now
	leader.UpdatedAt = now

	query := `INSERT INTO leader (id, name, role, bio, photo_url, position, created_at, updated_at)
	          VALUES (:id, :name, :role, :bio, :photo_url, :position, :created_at, :updated_at)`

	if _, err := repo.dbConn.NamedExec(query, fromDomainLeader(leader)); err != nil {
		return uuid.Nil, fmt.Errorf("creating leader %s: %w", leader.Name, err)
	}
	return id, nil
}

// UpdateLeader replaces the editable fields of a leader.
func (repo *Repository) UpdateLeader(id uuid.UUID, leader *domain.Leader) error {
	leader.ID = id
	leader.UpdatedAt = time.Now().UTC()

	query := `UPDATE leader
	          SET name = :name, role = :role, bio = :bio, photo_url = :photo_url,
	              position = :position, updated_at = :updated_at
	          WHERE id = :id`

	result, err := repo.dbConn.NamedExec(query, fromDomainLeader(leader))
	if err != nil {
		return fmt.Errorf("updating leader: %w", err)
	}
	return checkAffected(result, "leader", id)
}

// DeleteLeader removes a leader.
func (repo *Repository) DeleteLeader(id uuid.UUID) error {
	result, err := repo.dbConn.Exec(`DELETE FROM leader WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting leader %s: %w", id, err)
	}
	return checkAffected(result, "leader", id)
}
