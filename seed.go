package foundry

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/tfkr-ae/foundry/core"
	"github.com/tfkr-ae/foundry/domain"
	"gopkg.in/yaml.v3"
)

// Fixtures is the YAML document accepted by Seed.
type Fixtures struct {
	Settings   *SettingsFixture  `yaml:"settings"`
	Categories []CategoryFixture `yaml:"categories"`
	Projects   []ProjectFixture  `yaml:"projects"`
	Leaders    []LeaderFixture   `yaml:"leaders"`
	Logos      []LogoFixture     `yaml:"logos"`
}

type SettingsFixture struct {
	CompanyName string `yaml:"company_name"`
	Tagline     string `yaml:"tagline"`
	About       string `yaml:"about"`
	Email       string `yaml:"email"`
	Phone       string `yaml:"phone"`
	Address     string `yaml:"address"`
}

type SubcategoryFixture struct {
	Name     string `yaml:"name"`
	ImageURL string `yaml:"image_url"`
}

type CategoryFixture struct {
	Slug          string               `yaml:"slug"`
	Name          string               `yaml:"name"`
	Description   string               `yaml:"description"`
	ImageURL      string               `yaml:"image_url"`
	Position      int                  `yaml:"position"`
	Subcategories []SubcategoryFixture `yaml:"subcategories"`
}

// ProjectFixture links to categories by slug.
type ProjectFixture struct {
	Title       string   `yaml:"title"`
	Client      string   `yaml:"client"`
	Location    string   `yaml:"location"`
	Year        int      `yaml:"year"`
	Description string   `yaml:"description"`
	ImageURLs   []string `yaml:"image_urls"`
	Categories  []string `yaml:"categories"`
}

type LeaderFixture struct {
	Name     string `yaml:"name"`
	Role     string `yaml:"role"`
	Bio      string `yaml:"bio"`
	PhotoURL string `yaml:"photo_url"`
	Position int    `yaml:"position"`
}

type LogoFixture struct {
	Kind     string `yaml:"kind"`
	Name     string `yaml:"name"`
	ImageURL string `yaml:"image_url"`
	Position int    `yaml:"position"`
}

// SeedReport counts the documents created by Seed.
type SeedReport struct {
	Categories int
	Projects   int
	Leaders    int
	Logos      int
	Settings   bool
}

// LoadFixtures decodes a fixtures document. Unknown keys are rejected.
func LoadFixtures(r io.Reader) (*Fixtures, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var fixtures Fixtures
	if err := decoder.Decode(&fixtures); err != nil {
		if errors.Is(err, io.EOF) {
			return &fixtures, nil
		}
		return nil, fmt.Errorf("decoding fixtures: %w", err)
	}
	return &fixtures, nil
}

// Seed validates and stores every document of fixtures. It stops at the first
// invalid document; documents stored before it are kept.
func (app *App) Seed(fixtures *Fixtures) (SeedReport, error) {
	var report SeedReport
	repo := app.repo()
	if repo == nil {
		return report, errors.New("app has no repository")
	}

	if s := fixtures.Settings; s != nil {
		settings := domain.Settings(*s)
		if err := settings.Validate(); err != nil {
			return report, fmt.Errorf("validating settings: %w", err)
		}
		if err := repo.UpdateSettings(&settings); err != nil {
			return report, fmt.Errorf("updating settings: %w", err)
		}
		report.Settings = true
	}

	slugs := make(map[string]uuid.UUID, len(fixtures.Categories))
	for i, f := range fixtures.Categories {
		category := &domain.Category{
			Slug:        f.Slug,
			Name:        f.Name,
			Description: f.Description,
			ImageURL:    f.ImageURL,
			Position:    f.Position,
		}
		for _, sub := range f.Subcategories {
			category.Subcategories = append(category.Subcategories, domain.Subcategory(sub))
		}
		category.Normalize()
		if err := category.Validate(); err != nil {
			return report, fmt.Errorf("validating categories[%d]: %w", i, err)
		}
		id, err := repo.CreateCategory(category)
		if err != nil {
			return report, fmt.Errorf("creating category %s: %w", category.Slug, err)
		}
		slugs[category.Slug] = id
		report.Categories++
	}

	for i, f := range fixtures.Projects {
		project := &domain.Project{
			Title:       f.Title,
			Client:      f.Client,
			Location:    f.Location,
			Year:        f.Year,
			Description: f.Description,
			ImageURLs:   f.ImageURLs,
		}
		project.Normalize()
		if err := project.Validate(); err != nil {
			return report, fmt.Errorf("validating projects[%d]: %w", i, err)
		}
		id, err := repo.CreateProject(project)
		if err != nil {
			return report, fmt.Errorf("creating project %s: %w", project.Title, err)
		}
		for _, slug := range f.Categories {
			categoryID, ok := slugs[slug]
			if !ok {
				category, err := repo.GetCategoryBySlug(slug)
				if err != nil {
					return report, fmt.Errorf("linking project %s to %s: %w", project.Title, slug, err)
				}
				categoryID = category.ID
			}
			if err := repo.LinkCategoryToProject(categoryID, id); err != nil {
				return report, fmt.Errorf("linking project %s to %s: %w", project.Title, slug, err)
			}
		}
		report.Projects++
	}

	for i, f := range fixtures.Leaders {
		leader := &domain.Leader{
			Name:     f.Name,
			Role:     f.Role,
			Bio:      f.Bio,
			PhotoURL: f.PhotoURL,
			Position: f.Position,
		}
		leader.Normalize()
		if err := leader.Validate(); err != nil {
			return report, fmt.Errorf("validating leaders[%d]: %w", i, err)
		}
		if _, err := repo.CreateLeader(leader); err != nil {
			return report, fmt.Errorf("creating leader %s: %w", leader.Name, err)
		}
		report.Leaders++
	}

	for i, f := range fixtures.Logos {
		logo := &domain.Logo{
			Kind:     domain.LogoKind(f.Kind),
			Name:     f.Name,
			ImageURL: f.ImageURL,
			Position: f.Position,
		}
		logo.Normalize()
		if err := logo.Validate(); err != nil {
			return report, fmt.Errorf("validating logos[%d]: %w", i, err)
		}
		if _, err := repo.CreateLogo(logo); err != nil {
			return report, fmt.Errorf("creating logo %s: %w", logo.Name, err)
		}
		report.Logos++
	}

	app.WriteLog("INFO", "catalog seeded", core.LogWithContext(map[string]any{
		"categories": report.Categories,
		"projects":   report.Projects,
		"leaders":    report.Leaders,
		"logos":      report.Logos,
		"settings":   report.Settings,
	}))
	return report, nil
}
