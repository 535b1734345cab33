package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tfkr-ae/foundry/domain"
)

var _ domain.ProjectRepository = (*Repository)(nil)

// dbProject represents a project as stored in the database.
type dbProject struct {
	ID          uuid.UUID        `db:"id"`
	Title       string           `db:"title"`
	Client      string           `db:"client"`
	Location    string           `db:"location"`
	Year        int              `db:"year"`
	Description string           `db:"description"`
	ImageURLs   JSONList[string] `db:"image_urls"`
	CreatedAt   time.Time        `db:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at"`
}

const projectColumns = `id, title, client, location, year, description, image_urls, created_at, updated_at`

// toDomainProject converts a dbProject to a domain.Project.
func toDomainProject(p *dbProject) *domain.Project {
	return &domain.Project{
		ID:          p.ID,
		Title:       p.Title,
		Client:      p.Client,
		Location:    p.Location,
		Year:        p.Year,
		Description: p.Description,
		ImageURLs:   []string(p.ImageURLs),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// fromDomainProject converts a domain.Project to a dbProject.
func fromDomainProject(p *domain.Project) *dbProject {
	return &dbProject{
		ID:          p.ID,
		Title:       p.Title,
		Client:      p.Client,
		Location:    p.Location,
		Year:        p.Year,
		Description: p.Description,
		ImageURLs:   JSONList[string](p.ImageURLs),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// GetProjects retrieves all projects, newest year first.
func (repo *Repository) GetProjects() ([]*domain.Project, error) {
	var rows []*dbProject
	query := `SELECT ` + projectColumns + ` FROM project ORDER BY year DESC, title`

	err := repo.dbConn.Select(&rows, query)
	if err != nil {
		return nil, fmt.Errorf("getting projects: %w", err)
	}

	projects := make([]*domain.Project, len(rows))
	for i, row := range rows {
		projects[i] = toDomainProject(row)
	}
	return projects, nil
}

// GetProject retrieves a single project by ID.
func (repo *Repository) GetProject(id uuid.UUID) (*domain.Project, error) {
	var row dbProject
	query := `SELECT ` + projectColumns + ` FROM project WHERE id = ?`

	if err := repo.dbConn.Get(&row, query, id); err != nil {
		return nil, notFound(err, "project", id)
	}
	return toDomainProject(&row), nil
}

// CreateProject inserts a new project.
func (repo *Repository) CreateProject(project *domain.Project) (uuid.UUID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, fmt.Errorf("generating uuid: %w", err)
	}

	now := time.Now().UTC()
	project.ID = id
	project.CreatedAt = now
	project.UpdatedAt = now

	query := `INSERT INTO project (` + projectColumns + `)
	          VALUES (:id, :title, :client, :location, :year, :description, :image_urls, :created_at, :updated_at)`

	_, err = repo.dbConn.NamedExec(query, fromDomainProject(project))
	if err != nil {
		return uuid.Nil, fmt.Errorf("creating project %s: %w", project.Title, err)
	}
	return id, nil
}

// UpdateProject replaces the editable fields of a project.
func (repo *Repository) UpdateProject(id uuid.UUID, project *domain.Project) error {
	project.ID = id
	project.UpdatedAt = time.Now().UTC()

	query := `UPDATE project
	          SET title = :title, client = :client, location = :location, year = :year,
	              description = :description, image_urls = :image_urls, updated_at = :updated_at
	          WHERE id = :id`

	result, err := repo.dbConn.NamedExec(query, fromDomainProject(project))
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return checkAffected(result, "project", id)
}

// DeleteProject removes a project; its category links go with it.
func (repo *Repository) DeleteProject(id uuid.UUID) error {
	result, err := repo.dbConn.Exec(`DELETE FROM project WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project %s: %w", id, err)
	}
	return checkAffected(result, "project", id)
}

// GetProjectCategories retrieves all categories linked to a project.
func (repo *Repository) GetProjectCategories(projectID uuid.UUID) ([]*domain.Category, error) {
	var rows []*dbCategory
	query := `SELECT c.id, c.slug, c.name, c.description, c.image_url, c.subcategories, c.position, c.created_at, c.updated_at
	          FROM category c
	          JOIN project_category pc ON c.id = pc.category_id
	          WHERE pc.project_id = ?
	          ORDER BY c.position, c.name`

	err := repo.dbConn.Select(&rows, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("getting project categories: %w", err)
	}

	categories := make([]*domain.Category, len(rows))
	for i, row := range rows {
		categories[i] = toDomainCategory(row)
	}
	return categories, nil
}

// LinkCategoryToProject creates an association between a category and a project.
func (repo *Repository) LinkCategoryToProject(categoryID uuid.UUID, projectID uuid.UUID) error {
	var exists int
	err := repo.dbConn.Get(&exists, `SELECT
	          (SELECT COUNT(*) FROM project WHERE id = ?) + (SELECT COUNT(*) FROM category WHERE id = ?)`, projectID, categoryID)
	if err != nil {
		return fmt.Errorf("checking link targets: %w", err)
	}
	if exists != 2 {
		return fmt.Errorf("linking category %s to project %s: %w", categoryID, projectID, domain.ErrNotFound)
	}

	query := `INSERT OR IGNORE INTO project_category (project_id, category_id) VALUES (?, ?)`
	_, err = repo.dbConn.Exec(query, projectID, categoryID)
	if err != nil {
		return fmt.Errorf("linking category with project: %w", err)
	}
	return nil
}
