package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// LeaderRepository defines the persistence contract for leadership bios.
type LeaderRepository interface {
	// GetLeaders returns every leader ordered by position, then name.
	GetLeaders() ([]*Leader, error)

	// GetLeader returns the leader with the given ID or ErrNotFound.
	GetLeader(id uuid.UUID) (*Leader, error)

	// CreateLeader stores a new bio and returns its generated ID.
	CreateLeader(leader *Leader) (uuid.UUID, error)

	// UpdateLeader replaces the stored fields of an existing bio.
	UpdateLeader(id uuid.UUID, leader *Leader) error

	// DeleteLeader removes a bio.
	DeleteLeader(id uuid.UUID) error
}

// Leader is a member of the leadership team.
type Leader struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Bio       string    `json:"bio"`
	PhotoURL  string    `json:"photo_url"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Normalize trims the name and role.
func (l *Leader) Normalize() {
	l.Name = strings.TrimSpace(l.Name)
	l.Role = strings.TrimSpace(l.Role)
}

// Validate checks the payload shape.
func (l *Leader) Validate() error {
	v := &validator{}
	v.required("name", l.Name)
	v.maxLen("name", l.Name, 120)
	v.required("role", l.Role)
	v.maxLen("role", l.Role, 120)
	v.maxLen("bio", l.Bio, 8000)
	if l.Position < 0 {
		v.add("position", "must not be negative")
	}
	return v.err()
}
