package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tfkr-ae/foundry/carousel"
)

// LogoKind separates the two logo strips of the home page.
type LogoKind string

const (
	// LogoCertification is a quality or industry certification badge.
	LogoCertification LogoKind = "certification"
	// LogoClient is a customer logo.
	LogoClient LogoKind = "client"
)

// Valid reports whether k is a known kind.
func (k LogoKind) Valid() bool {
	return k == LogoCertification || k == LogoClient
}

// LogoRepository defines the persistence contract for logos.
type LogoRepository interface {
	// GetLogos returns every logo ordered by kind, position, then name.
	GetLogos() ([]*Logo, error)

	// GetLogosByKind returns the logos of one strip ordered by position.
	GetLogosByKind(kind LogoKind) ([]*Logo, error)

	// GetLogo returns the logo with the given ID or ErrNotFound.
	GetLogo(id uuid.UUID) (*Logo, error)

	// CreateLogo stores a logo and returns its generated ID.
	CreateLogo(logo *Logo) (uuid.UUID, error)

	// DeleteLogo removes a logo.
	DeleteLogo(id uuid.UUID) error
}

// Logo is one item of the certification or client carousel.
type Logo struct {
	ID        uuid.UUID `json:"id"`
	Kind      LogoKind  `json:"kind"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"image_url"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// Normalize trims the name and lowercases the kind.
func (l *Logo) Normalize() {
	l.Name = strings.TrimSpace(l.Name)
	l.Kind = LogoKind(strings.ToLower(strings.TrimSpace(string(l.Kind))))
}

// Validate checks the payload shape.
func (l *Logo) Validate() error {
	v := &validator{}
	if !l.Kind.Valid() {
		v.add("kind", `must be "certification" or "client"`)
	}
	v.required("name", l.Name)
	v.maxLen("name", l.Name, 120)
	v.required("image_url", l.ImageURL)
	if l.Position < 0 {
		v.add("position", "must not be negative")
	}
	return v.err()
}

// LogoItems converts logos into carousel items, keeping their order.
func LogoItems(logos []*Logo) []carousel.Item {
	items := make([]carousel.Item, len(logos))
	for i, l := range logos {
		items[i] = carousel.Item{
			ID:       l.ID.String(),
			Caption:  l.Name,
			ImageURL: l.ImageURL,
		}
	}
	return items
}
