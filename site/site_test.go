package site

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tfkr-ae/foundry/carousel"
	"github.com/tfkr-ae/foundry/domain"
)

type memoryStore struct {
	settings   *domain.Settings
	categories []*domain.Category
	projects   []*domain.Project
	leaders    []*domain.Leader
	logos      []*domain.Logo
	err        error
}

func (m *memoryStore) GetSettings() (*domain.Settings, error) {
	if m.settings == nil {
		return nil, domain.ErrNotFound
	}
	return m.settings, m.err
}

func (m *memoryStore) GetCategories() ([]*domain.Category, error) {
	return m.categories, m.err
}

func (m *memoryStore) GetCategoryBySlug(slug string) (*domain.Category, error) {
	for _, c := range m.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, fmt.Errorf("category %q: %w", slug, domain.ErrNotFound)
}

func (m *memoryStore) GetProjects() ([]*domain.Project, error) {
	return m.projects, m.err
}

func (m *memoryStore) GetLeaders() ([]*domain.Leader, error) {
	return m.leaders, m.err
}

func (m *memoryStore) GetLogosByKind(kind domain.LogoKind) ([]*domain.Logo, error) {
	var out []*domain.Logo
	for _, l := range m.logos {
		if l.Kind == kind {
			out = append(out, l)
		}
	}
	return out, m.err
}

func seededStore() *memoryStore {
	store := &memoryStore{
		settings: &domain.Settings{CompanyName: "Gulf Castings", Tagline: "Iron and steel since 1987", Email: "sales@gulfcastings.example"},
		categories: []*domain.Category{{
			ID:   uuid.New(),
			Slug: "valve-bodies",
			Name: "Valve Bodies",
			Subcategories: []domain.Subcategory{
				{Name: "Gate valves", ImageURL: "/img/gate.jpg"},
				{Name: "Globe valves", ImageURL: "/img/globe.jpg"},
			},
		}},
		projects: []*domain.Project{{
			ID:        uuid.New(),
			Title:     "Desalination plant",
			Client:    "Water Authority",
			Year:      2023,
			ImageURLs: []string{"/img/p1.jpg", "/img/p2.jpg"},
		}},
		leaders: []*domain.Leader{{ID: uuid.New(), Name: "R. Haddad", Role: "Managing Director"}},
	}
	for i := range 6 {
		store.logos = append(store.logos, &domain.Logo{
			ID:       uuid.New(),
			Kind:     domain.LogoClient,
			Name:     fmt.Sprintf("Client %d", i),
			ImageURL: fmt.Sprintf("/img/client-%d.svg", i),
		})
	}
	store.logos = append(store.logos, &domain.Logo{ID: uuid.New(), Kind: domain.LogoCertification, Name: "ISO 9001", ImageURL: "/img/iso.svg"})
	return store
}

func setupTestSite(t *testing.T, store Store, options ...func(*Site) error) http.Handler {
	t.Helper()
	options = append([]func(*Site) error{
		WithFormatting(false),
		WithRand(func() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }),
	}, options...)
	s, err := New(store, options...)
	require.NoError(t, err)
	return s.Handler()
}

func get(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return rec.Code, string(body)
}

func TestHome(t *testing.T) {
	h := setupTestSite(t, seededStore())
	code, body := get(t, h, "/")
	require.Equal(t, http.StatusOK, code)

	t.Run("should render the company settings and leaders", func(t *testing.T) {
		assert.Contains(t, body, "Gulf Castings")
		assert.Contains(t, body, "Iron and steel since 1987")
		assert.Contains(t, body, "R. Haddad")
		assert.Contains(t, body, `href="/products/valve-bodies"`)
	})

	t.Run("should render the client strip doubled at position zero", func(t *testing.T) {
		assert.Contains(t, body, `id="clients" data-mode="loop" data-interval="3000" data-transition="700" data-items-per-page="4"`)
		assert.Equal(t, 12, strings.Count(body, `src="/img/client-`), "six logos drawn twice")
		assert.Contains(t, body, "transform: translateX(-0%); transition: transform 700ms ease-in-out")
		assert.Contains(t, body, `data-page="1"`)
		assert.NotContains(t, body, `data-page="2"`)
	})

	t.Run("should shuffle the clients deterministically with a fixed seed", func(t *testing.T) {
		_, again := get(t, h, "/")
		assert.Equal(t, body, again)
	})

	t.Run("should scatter the background blurs", func(t *testing.T) {
		assert.Equal(t, 4, strings.Count(body, `class="blur"`))
	})
}

func TestHome_EmptyCatalog(t *testing.T) {
	h := setupTestSite(t, &memoryStore{}, WithBlurs(0))
	code, body := get(t, h, "/")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Foundry", "falls back to a default name without settings")
	assert.Equal(t, 2, strings.Count(body, "Nothing to show yet."))
	assert.NotContains(t, body, `class="blur"`)
}

func TestProduct(t *testing.T) {
	h := setupTestSite(t, seededStore(), WithCarouselConfig(carousel.Config{
		ItemsPerPage:       2,
		Interval:           5 * time.Second,
		TransitionDuration: 500 * time.Millisecond,
		Mode:               carousel.Paged,
	}))

	t.Run("should render the subcategory scroller once in paged mode", func(t *testing.T) {
		code, body := get(t, h, "/products/valve-bodies")
		require.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, `id="category-valve-bodies" data-mode="paged"`)
		assert.Equal(t, 1, strings.Count(body, `src="/img/gate.jpg"`))
		assert.Contains(t, body, "flex: 0 0 50%")
		assert.Contains(t, body, "transition: transform 500ms ease-in-out")
	})

	t.Run("should answer 404 for an unknown slug", func(t *testing.T) {
		code, body := get(t, h, "/products/bells")
		assert.Equal(t, http.StatusNotFound, code)
		assert.Contains(t, body, "We could not find that product range.")
	})
}

func TestProjects(t *testing.T) {
	store := seededStore()
	h := setupTestSite(t, store)

	code, body := get(t, h, "/projects")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Desalination plant")
	assert.Contains(t, body, "Water Authority")
	assert.Contains(t, body, `id="project-`+store.projects[0].ID.String()+`"`)
	assert.Contains(t, body, "flex: 0 0 100%", "one photo per page")
}

func TestRender_Formatting(t *testing.T) {
	s, err := New(seededStore())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/projects", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Desalination plant")
}

func TestRender_StoreFailure(t *testing.T) {
	store := seededStore()
	store.err = errors.New("disk on fire")
	h := setupTestSite(t, store)

	code, body := get(t, h, "/")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.NotContains(t, body, "disk on fire")
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New(seededStore(), WithRand(nil))
	assert.Error(t, err)

	_, err = New(seededStore(), WithBlurs(-1))
	assert.Error(t, err)

	_, err = New(seededStore(), WithCarouselConfig(carousel.Config{}))
	assert.ErrorIs(t, err, carousel.ErrInvalidConfig)
}

func TestNewCarouselView(t *testing.T) {
	items := []carousel.Item{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	view := NewCarouselView("logos", items, carousel.DefaultConfig())
	assert.Len(t, view.Strip, 6)
	assert.InDelta(t, 25.0, view.ItemWidth, 1e-9)
	assert.True(t, view.Animate)
	assert.False(t, view.Empty)
	assert.Len(t, view.Indicators, 1)

	empty := NewCarouselView("none", nil, carousel.DefaultConfig())
	assert.True(t, empty.Empty)
	assert.Empty(t, empty.Strip)
}
