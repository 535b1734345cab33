package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tfkr-ae/foundry/domain"
	"github.com/tfkr-ae/foundry/render"
)

type healthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// health pings the store when it supports it.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if pinger, ok := s.store.(interface{ Ping() error }); ok {
		if err := pinger.Ping(); err != nil {
			s.logger.Warn("health check failed", "error", err)
			s.writeJSON(w, r, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Error: err.Error()})
			return
		}
	}
	s.writeJSON(w, r, http.StatusOK, healthResponse{Status: "ok"})
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.GetSettings()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, settings)
}

func (s *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	var settings domain.Settings
	if err := decode(r, &settings); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := settings.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.UpdateSettings(&settings); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.getSettings(w, r)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetStats()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, stats)
}

// Catalog loads every published document.
func Catalog(store Store) (*render.Catalog, error) {
	settings, err := store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	categories, err := store.GetCategories()
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}
	projects, err := store.GetProjects()
	if err != nil {
		return nil, fmt.Errorf("loading projects: %w", err)
	}
	leaders, err := store.GetLeaders()
	if err != nil {
		return nil, fmt.Errorf("loading leaders: %w", err)
	}
	logos, err := store.GetLogos()
	if err != nil {
		return nil, fmt.Errorf("loading logos: %w", err)
	}
	return &render.Catalog{
		Settings:   settings,
		Categories: categories,
		Projects:   projects,
		Leaders:    leaders,
		Logos:      logos,
		ExportedAt: time.Now().UTC(),
	}, nil
}

func (s *Server) exportXML(w http.ResponseWriter, r *http.Request) {
	catalog, err := Catalog(s.store)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	body, err := render.ExportXML(catalog)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="catalog.xml"`)
	w.Write(body)
}
