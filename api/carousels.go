package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/tfkr-ae/foundry/carousel"
	"github.com/tfkr-ae/foundry/domain"
)

// carouselResponse previews what the site renders for a carousel.
type carouselResponse struct {
	Name     string          `json:"name"`
	Mode     string          `json:"mode"`
	Items    []carousel.Item `json:"items"`
	Extended []carousel.Item `json:"extended"`
	Frame    carousel.Frame  `json:"frame"`
}

// LogoCarousels maps carousel names to the logo kind they show.
var LogoCarousels = map[string]domain.LogoKind{
	"certifications": domain.LogoCertification,
	"clients":        domain.LogoClient,
}

func (s *Server) logoCarousel(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	kind, ok := LogoCarousels[name]
	if !ok {
		s.writeError(w, r, fmt.Errorf("no carousel named %q: %w", name, domain.ErrNotFound))
		return
	}
	logos, err := s.store.GetLogosByKind(kind)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.previewCarousel(w, r, name, domain.LogoItems(logos))
}

func (s *Server) categoryCarousel(w http.ResponseWriter, r *http.Request) {
	category, err := s.store.GetCategoryBySlug(mux.Vars(r)["slug"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.previewCarousel(w, r, "category:"+category.Slug, category.CarouselItems())
}

func (s *Server) projectCarousel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	project, err := s.store.GetProject(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.previewCarousel(w, r, "project:"+project.ID.String(), project.CarouselItems())
}

// previewCarousel applies the query overrides and reports the resulting frame.
// page jumps to an indicator, position sets the raw position instead; ticks
// then advances the carousel that many times, settling every reset as the
// player would.
func (s *Server) previewCarousel(w http.ResponseWriter, r *http.Request, name string, items []carousel.Item) {
	cfg, err := s.previewConfig(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	c := carousel.New(items, cfg)
	query := r.URL.Query()

	if raw := query.Get("position"); raw != "" {
		position, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("parsing position %q: %w", raw, domain.ErrInvalid))
			return
		}
		c.JumpTo(position)
	}

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("parsing page %q: %w", raw, domain.ErrInvalid))
			return
		}
		c.JumpToPage(page)
	}

	if raw := query.Get("ticks"); raw != "" {
		ticks, err := strconv.Atoi(raw)
		if err != nil || ticks < 0 || ticks > 10000 {
			s.writeError(w, r, fmt.Errorf("ticks must be between 0 and 10000: %w", domain.ErrInvalid))
			return
		}
		for range ticks {
			if c.Tick() {
				c.Settle()
			}
		}
	}

	s.writeJSON(w, r, http.StatusOK, carouselResponse{
		Name:     name,
		Mode:     cfg.Mode.String(),
		Items:    c.Items(),
		Extended: c.Extended(),
		Frame:    c.Frame(),
	})
}

func (s *Server) previewConfig(r *http.Request) (carousel.Config, error) {
	cfg := s.carousel
	query := r.URL.Query()

	if raw := query.Get("items_per_page"); raw != "" {
		perPage, err := strconv.Atoi(raw)
		if err != nil || perPage < 1 {
			return cfg, fmt.Errorf("items_per_page must be a positive integer: %w", domain.ErrInvalid)
		}
		cfg.ItemsPerPage = perPage
	}

	if raw := query.Get("mode"); raw != "" {
		mode, err := carousel.ParseMode(raw)
		if err != nil {
			return cfg, fmt.Errorf("%v: %w", err, domain.ErrInvalid)
		}
		cfg.Mode = mode
	}
	return cfg, nil
}
