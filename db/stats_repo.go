package db

import (
	"fmt"

	"github.com/tfkr-ae/foundry/domain"
)

var _ domain.StatsRepository = (*Repository)(nil)

// GetStats counts the documents of every kind in a single query.
func (repo *Repository) GetStats() (*domain.Stats, error) {
	var stats domain.Stats
	query := `SELECT
	              (SELECT COUNT(*) FROM category)        AS categories,
	              (SELECT COUNT(*) FROM project)         AS projects,
	              (SELECT COUNT(*) FROM leader)          AS leaders,
	              (SELECT COUNT(*) FROM logo)            AS logos,
	              (SELECT COUNT(*) FROM contact_message) AS messages`

	if err := repo.dbConn.Get(&stats, query); err != nil {
		return nil, fmt.Errorf("getting stats: %w", err)
	}
	return &stats, nil
}
