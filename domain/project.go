package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tfkr-ae/foundry/carousel"
)

// ProjectRepository defines the persistence contract for reference projects
// and their links to the product categories they used.
type ProjectRepository interface {
	// GetProjects returns every project, newest year first.
	GetProjects() ([]*Project, error)

	// GetProject returns the project with the given ID or ErrNotFound.
	GetProject(id uuid.UUID) (*Project, error)

	// CreateProject stores a new project and returns its generated ID.
	CreateProject(project *Project) (uuid.UUID, error)

	// UpdateProject replaces the stored fields of an existing project.
	UpdateProject(id uuid.UUID, project *Project) error

	// DeleteProject removes a project and its category links.
	DeleteProject(id uuid.UUID) error

	// GetProjectCategories returns the categories linked to a project.
	GetProjectCategories(projectID uuid.UUID) ([]*Category, error)

	// LinkCategoryToProject associates a category with a project.
	// It returns ErrNotFound if either document does not exist.
	LinkCategoryToProject(categoryID uuid.UUID, projectID uuid.UUID) error
}

// Project is a delivered order shown on the projects page.
type Project struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Client      string    `json:"client"`
	Location    string    `json:"location"`
	Year        int       `json:"year"`
	Description string    `json:"description"`
	ImageURLs   []string  `json:"image_urls"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Normalize trims the text fields.
func (p *Project) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Client = strings.TrimSpace(p.Client)
	p.Location = strings.TrimSpace(p.Location)
	if p.ImageURLs == nil {
		p.ImageURLs = []string{}
	}
}

// Validate checks the payload shape.
func (p *Project) Validate() error {
	v := &validator{}
	v.required("title", p.Title)
	v.maxLen("title", p.Title, 200)
	v.maxLen("client", p.Client, 200)
	v.maxLen("location", p.Location, 200)
	v.maxLen("description", p.Description, 8000)
	if p.Year != 0 && (p.Year < 1900 || p.Year > time.Now().Year()+5) {
		v.add("year", "must be between 1900 and five years from now")
	}
	for i, u := range p.ImageURLs {
		v.required(fmt.Sprintf("image_urls[%d]", i), u)
	}
	return v.err()
}

// CarouselItems converts the project gallery into carousel items.
func (p *Project) CarouselItems() []carousel.Item {
	items := make([]carousel.Item, len(p.ImageURLs))
	for i, u := range p.ImageURLs {
		items[i] = carousel.Item{
			ID:       fmt.Sprintf("%s-%d", p.ID, i),
			Caption:  p.Title,
			ImageURL: u,
		}
	}
	return items
}
