package domain

// SettingsRepository manages the single row of site wide settings.
type SettingsRepository interface {
	// GetSettings returns the current settings.
	GetSettings() (*Settings, error)

	// UpdateSettings replaces the settings. Empty fields keep their stored value.
	UpdateSettings(settings *Settings) error
}

// Settings holds the company information shown in the page header and footer.
type Settings struct {
	CompanyName string `json:"company_name"`
	Tagline     string `json:"tagline"`
	About       string `json:"about"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

// Validate checks the payload shape.
func (s *Settings) Validate() error {
	v := &validator{}
	v.maxLen("company_name", s.CompanyName, 200)
	v.maxLen("tagline", s.Tagline, 300)
	v.maxLen("about", s.About, 8000)
	v.email("email", s.Email)
	return v.err()
}
