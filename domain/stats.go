package domain

// StatsRepository counts the stored documents.
type StatsRepository interface {
	// GetStats returns the document counts of every collection.
	GetStats() (*Stats, error)
}

// Stats are the document counts shown on the admin dashboard.
type Stats struct {
	Categories int `json:"categories" db:"categories"`
	Projects   int `json:"projects" db:"projects"`
	Leaders    int `json:"leaders" db:"leaders"`
	Logos      int `json:"logos" db:"logos"`
	Messages   int `json:"messages" db:"messages"`
}
