package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tfkr-ae/foundry/carousel"
)

// CategoryRepository defines the persistence contract for product categories.
type CategoryRepository interface {
	// GetCategories returns every category ordered by position, then name.
	GetCategories() ([]*Category, error)

	// GetCategory returns the category with the given ID or ErrNotFound.
	GetCategory(id uuid.UUID) (*Category, error)

	// GetCategoryBySlug returns the category published under slug or ErrNotFound.
	GetCategoryBySlug(slug string) (*Category, error)

	// CreateCategory stores a new category and returns its generated ID.
	CreateCategory(category *Category) (uuid.UUID, error)

	// UpdateCategory replaces the stored fields of an existing category.
	UpdateCategory(id uuid.UUID, category *Category) error

	// DeleteCategory removes a category. Project links are removed with it.
	DeleteCategory(id uuid.UUID) error
}

// Category is a product family, e.g. "Valve bodies" or "Pump casings".
type Category struct {
	ID            uuid.UUID     `json:"id"`
	Slug          string        `json:"slug"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	ImageURL      string        `json:"image_url"`
	Subcategories []Subcategory `json:"subcategories"`
	Position      int           `json:"position"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Subcategory is one card of the category page scroller.
type Subcategory struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)
	slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// Slugify lowercases name and joins its alphanumeric runs with dashes.
func Slugify(name string) string {
	slug := slugInvalid.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// Normalize fills derived fields before validation.
func (c *Category) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	if c.Subcategories == nil {
		c.Subcategories = []Subcategory{}
	}
}

// Validate checks the payload shape.
func (c *Category) Validate() error {
	v := &validator{}
	v.required("name", c.Name)
	v.maxLen("name", c.Name, 120)
	v.maxLen("description", c.Description, 4000)
	if c.Slug != "" && !slugPattern.MatchString(c.Slug) {
		v.add("slug", "must contain lowercase letters, digits and single dashes")
	}
	if c.Position < 0 {
		v.add("position", "must not be negative")
	}
	for i, sub := range c.Subcategories {
		field := fmt.Sprintf("subcategories[%d].name", i)
		v.required(field, sub.Name)
		v.maxLen(field, sub.Name, 120)
	}
	return v.err()
}

// CarouselItems converts the subcategories into scroller items.
func (c *Category) CarouselItems() []carousel.Item {
	items := make([]carousel.Item, len(c.Subcategories))
	for i, sub := range c.Subcategories {
		items[i] = carousel.Item{
			ID:       fmt.Sprintf("%s-%d", c.Slug, i),
			Caption:  sub.Name,
			ImageURL: sub.ImageURL,
		}
	}
	return items
}
