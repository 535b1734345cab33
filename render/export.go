package render

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/tfkr-ae/foundry/domain"
)

// Catalog is everything published on the site.
type Catalog struct {
	Settings   *domain.Settings
	Categories []*domain.Category
	Projects   []*domain.Project
	Leaders    []*domain.Leader
	Logos      []*domain.Logo
	ExportedAt time.Time
}

// ExportXML writes the catalog as an indented XML document.
func ExportXML(c *Catalog) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("catalog")
	if !c.ExportedAt.IsZero() {
		root.CreateAttr("exported", c.ExportedAt.UTC().Format(time.RFC3339))
	}

	if s := c.Settings; s != nil {
		company := root.CreateElement("company")
		company.CreateAttr("name", s.CompanyName)
		textElement(company, "tagline", s.Tagline)
		textElement(company, "about", s.About)
		textElement(company, "email", s.Email)
		textElement(company, "phone", s.Phone)
		textElement(company, "address", s.Address)
	}

	categories := root.CreateElement("categories")
	for _, cat := range c.Categories {
		el := categories.CreateElement("category")
		el.CreateAttr("id", cat.ID.String())
		el.CreateAttr("slug", cat.Slug)
		textElement(el, "name", cat.Name)
		textElement(el, "description", cat.Description)
		textElement(el, "image", cat.ImageURL)
		for _, sub := range cat.Subcategories {
			subEl := el.CreateElement("subcategory")
			subEl.CreateAttr("image", sub.ImageURL)
			subEl.SetText(sub.Name)
		}
	}

	projects := root.CreateElement("projects")
	for _, p := range c.Projects {
		el := projects.CreateElement("project")
		el.CreateAttr("id", p.ID.String())
		if p.Year != 0 {
			el.CreateAttr("year", strconv.Itoa(p.Year))
		}
		textElement(el, "title", p.Title)
		textElement(el, "client", p.Client)
		textElement(el, "location", p.Location)
		textElement(el, "description", p.Description)
		for _, url := range p.ImageURLs {
			el.CreateElement("image").SetText(url)
		}
	}

	leaders := root.CreateElement("leaders")
	for _, l := range c.Leaders {
		el := leaders.CreateElement("leader")
		el.CreateAttr("id", l.ID.String())
		textElement(el, "name", l.Name)
		textElement(el, "role", l.Role)
		textElement(el, "bio", l.Bio)
		textElement(el, "photo", l.PhotoURL)
	}

	logos := root.CreateElement("logos")
	for _, l := range c.Logos {
		el := logos.CreateElement("logo")
		el.CreateAttr("id", l.ID.String())
		el.CreateAttr("kind", string(l.Kind))
		el.CreateAttr("image", l.ImageURL)
		el.SetText(l.Name)
	}

	doc.Indent(2)
	var out bytes.Buffer
	if _, err := doc.WriteTo(&out); err != nil {
		return nil, fmt.Errorf("writing catalog xml: %w", err)
	}
	return out.Bytes(), nil
}

// textElement adds a child with text content, skipping empty values.
func textElement(parent *etree.Element, tag, text string) {
	if text == "" {
		return
	}
	parent.CreateElement(tag).SetText(text)
}
