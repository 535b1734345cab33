package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tfkr-ae/foundry/domain"
)

var _ domain.CategoryRepository = (*Repository)(nil)

// dbCategory represents a category as stored in the database.
type dbCategory struct {
	ID            uuid.UUID                    `db:"id"`
	Slug          string                       `db:"slug"`
	Name          string                       `db:"name"`
	Description   string                       `db:"description"`
	ImageURL      string                       `db:"image_url"`
	Subcategories JSONList[domain.Subcategory] `db:"subcategories"`
	Position      int                          `db:"position"`
	CreatedAt     time.Time                    `db:"created_at"`
	UpdatedAt     time.Time                    `db:"updated_at"`
}

const categoryColumns = `id, slug, name, description, image_url, subcategories, position, created_at, updated_at`

// toDomainCategory converts a dbCategory to a domain.Category.
func toDomainCategory(c *dbCategory) *domain.Category {
	return &domain.Category{
		ID:            c.ID,
		Slug:          c.Slug,
		Name:          c.Name,
		Description:   c.Description,
		ImageURL:      c.ImageURL,
		Subcategories: []domain.Subcategory(c.Subcategories),
		Position:      c.Position,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// fromDomainCategory converts a domain.Category to a dbCategory.
func fromDomainCategory(c *domain.Category) *dbCategory {
	return &dbCategory{
		ID:            c.ID,
		Slug:          c.Slug,
		Name:          c.Name,
		Description:   c.Description,
		ImageURL:      c.ImageURL,
		Subcategories: JSONList[domain.Subcategory](c.Subcategories),
		Position:      c.Position,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// GetCategories retrieves all categories ordered by position, then name.
func (repo *Repository) GetCategories() ([]*domain.Category, error) {
	var rows []*dbCategory
	query := `SELECT ` + categoryColumns + ` FROM category ORDER BY position, name`

	err := repo.dbConn.Select(&rows, query)
	if err != nil {
		return nil, fmt.Errorf("getting categories: %w", err)
	}

	categories := make([]*domain.Category, len(rows))
	for i, row := range rows {
		categories[i] = toDomainCategory(row)
	}
	return categories, nil
}

// GetCategory retrieves a single category by ID.
func (repo *Repository) GetCategory(id uuid.UUID) (*domain.Category, error) {
	var row dbCategory
	query := `SELECT ` + categoryColumns + ` FROM category WHERE id = ?`

	if err := repo.dbConn.Get(&row, query, id); err != nil {
		return nil, notFound(err, "category", id)
	}
	return toDomainCategory(&row), nil
}

// GetCategoryBySlug retrieves a single category by its slug.
func (repo *Repository) GetCategoryBySlug(slug string) (*domain.Category, error) {
	var row dbCategory
	query := `SELECT ` + categoryColumns + ` FROM category WHERE slug = ?`

	if err := repo.dbConn.Get(&row, query, slug); err != nil {
		return nil, notFound(err, "category with slug", slug)
	}
	return toDomainCategory(&row), nil
}

// CreateCategory inserts a new category. The ID and timestamps are generated here.
func (repo *Repository) CreateCategory(category *domain.Category) (uuid.UUID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, fmt.Errorf("generating uuid: %w", err)
	}

	now := time.Now().UTC()
	category.ID = id
	category.CreatedAt = now
	category.UpdatedAt = now

	query := `INSERT INTO category (` + categoryColumns + `)
	          VALUES (:id, :slug, :name, :description, :image_url, :subcategories, :position, :created_at, :updated_at)`

	_, err = repo.dbConn.NamedExec(query, fromDomainCategory(category))
	if err != nil {
		return uuid.Nil, fmt.Errorf("creating category %s: %w", category.Name, conflict(err, "category", category.Slug))
	}
	return id, nil
}

// UpdateCategory replaces the editable fields of a category.
func (repo *Repository) UpdateCategory(id uuid.UUID, category *domain.Category) error {
	category.ID = id
	category.UpdatedAt = time.Now().UTC()

	query := `UPDATE category
	          SET slug = :slug, name = :name, description = :description, image_url = :image_url,
	              subcategories = :subcategories, position = :position, updated_at = :updated_at
	          WHERE id = :id`

	result, err := repo.dbConn.NamedExec(query, fromDomainCategory(category))
	if err != nil {
		return fmt.Errorf("updating category: %w", conflict(err, "category", category.Slug))
	}
	return checkAffected(result, "category", id)
}

// DeleteCategory removes a category from the database.
func (repo *Repository) DeleteCategory(id uuid.UUID) error {
	result, err := repo.dbConn.Exec(`DELETE FROM category WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting category %s: %w", id, err)
	}
	return checkAffected(result, "category", id)
}
