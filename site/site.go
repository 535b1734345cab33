// Package site renders the public pages: the home page with the certification
// and client carousels, the product category pages and the projects gallery.
package site

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/tfkr-ae/foundry/carousel"
	"github.com/tfkr-ae/foundry/domain"
	"github.com/yosssi/gohtml"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"home", "product", "projects", "notfound"}

// Store is the read side of the catalog the pages need.
type Store interface {
	GetSettings() (*domain.Settings, error)
	GetCategories() ([]*domain.Category, error)
	GetCategoryBySlug(slug string) (*domain.Category, error)
	GetProjects() ([]*domain.Project, error)
	GetLeaders() ([]*domain.Leader, error)
	GetLogosByKind(kind domain.LogoKind) ([]*domain.Logo, error)
}

// Site renders pages from a Store.
type Site struct {
	store    Store
	logger   *slog.Logger
	carousel carousel.Config
	pages    map[string]*template.Template
	newRand  func() *rand.Rand
	format   bool
	blurs    int
}

// WithLogger sets the logger for render failures.
func WithLogger(logger *slog.Logger) func(*Site) error {
	return func(s *Site) error {
		if logger != nil {
			s.logger = logger
		}
		return nil
	}
}

// WithCarouselConfig sets the carousel timing and layout used by every strip.
func WithCarouselConfig(cfg carousel.Config) func(*Site) error {
	return func(s *Site) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("validating carousel config: %w", err)
		}
		s.carousel = cfg
		return nil
	}
}

// WithRand replaces the generator used for the client shuffle and the
// background blurs. newRand is called once per request.
func WithRand(newRand func() *rand.Rand) func(*Site) error {
	return func(s *Site) error {
		if newRand == nil {
			return errors.New("rand constructor is nil")
		}
		s.newRand = newRand
		return nil
	}
}

// WithFormatting toggles indenting of the rendered HTML.
func WithFormatting(enabled bool) func(*Site) error {
	return func(s *Site) error {
		s.format = enabled
		return nil
	}
}

// WithBlurs sets how many decorative blurs are scattered behind each page.
func WithBlurs(n int) func(*Site) error {
	return func(s *Site) error {
		if n < 0 {
			return fmt.Errorf("blur count %d is negative", n)
		}
		s.blurs = n
		return nil
	}
}

// New parses the embedded templates and applies the options.
func New(store Store, options ...func(*Site) error) (*Site, error) {
	if store == nil {
		return nil, errors.New("store is nil")
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	s := &Site{
		store:    store,
		logger:   slog.New(slog.DiscardHandler),
		carousel: carousel.DefaultConfig(),
		pages:    pages,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
		format: true,
		blurs:  4,
	}
	for _, option := range options {
		if err := option(s); err != nil {
			return nil, fmt.Errorf("applying option on site: %w", err)
		}
	}
	return s, nil
}

var funcs = template.FuncMap{
	"pct": func(v float64) template.CSS {
		return template.CSS(strconv.FormatFloat(math.Round(v*1e4)/1e4, 'f', -1, 64))
	},
	"inc": func(i int) int { return i + 1 },
}

func parsePages() (map[string]*template.Template, error) {
	base, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/carousel.html")
	if err != nil {
		return nil, fmt.Errorf("parsing layout: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning layout for %s: %w", name, err)
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parsing %s page: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

// Register mounts the pages on r. Unmatched paths of r get the not found page.
func (s *Site) Register(r *mux.Router) {
	r.HandleFunc("/", s.home).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/products/{slug}", s.product).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/projects", s.projects).Methods(http.MethodGet, http.MethodHead)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.notFound(w, r, "There is nothing at this address.")
	})
}

// Handler returns a router serving only the pages.
func (s *Site) Handler() http.Handler {
	r := mux.NewRouter()
	s.Register(r)
	return r
}

// layout is the data every page shares.
type layout struct {
	Title      string
	Settings   *domain.Settings
	Categories []*domain.Category
	Blurs      []carousel.Point
}

type homePage struct {
	layout
	Certifications CarouselView
	Clients        CarouselView
	Leaders        []*domain.Leader
}

type productPage struct {
	layout
	Category      *domain.Category
	Subcategories CarouselView
}

type projectView struct {
	Project *domain.Project
	Gallery CarouselView
}

type projectsPage struct {
	layout
	Projects []projectView
}

type notFoundPage struct {
	layout
	Message string
}

func (s *Site) layout(title string, rnd *rand.Rand) (layout, error) {
	settings, err := s.store.GetSettings()
	if errors.Is(err, domain.ErrNotFound) {
		settings, err = &domain.Settings{}, nil
	}
	if err != nil {
		return layout{}, fmt.Errorf("getting settings: %w", err)
	}

	categories, err := s.store.GetCategories()
	if err != nil {
		return layout{}, fmt.Errorf("getting categories: %w", err)
	}

	return layout{
		Title:      title,
		Settings:   settings,
		Categories: categories,
		Blurs:      carousel.Scatter(s.blurs, 100, 100, rnd),
	}, nil
}

func (s *Site) home(w http.ResponseWriter, r *http.Request) {
	rnd := s.newRand()
	base, err := s.layout("Home", rnd)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	certifications, err := s.store.GetLogosByKind(domain.LogoCertification)
	if err != nil {
		s.fail(w, r, fmt.Errorf("getting certification logos: %w", err))
		return
	}
	clients, err := s.store.GetLogosByKind(domain.LogoClient)
	if err != nil {
		s.fail(w, r, fmt.Errorf("getting client logos: %w", err))
		return
	}
	leaders, err := s.store.GetLeaders()
	if err != nil {
		s.fail(w, r, fmt.Errorf("getting leaders: %w", err))
		return
	}

	s.render(w, r, http.StatusOK, "home", homePage{
		layout:         base,
		Certifications: NewCarouselView("certifications", domain.LogoItems(certifications), s.carousel),
		Clients:        NewCarouselView("clients", carousel.Shuffle(domain.LogoItems(clients), rnd), s.carousel),
		Leaders:        leaders,
	})
}

func (s *Site) product(w http.ResponseWriter, r *http.Request) {
	category, err := s.store.GetCategoryBySlug(mux.Vars(r)["slug"])
	if errors.Is(err, domain.ErrNotFound) {
		s.notFound(w, r, "We could not find that product range.")
		return
	}
	if err != nil {
		s.fail(w, r, fmt.Errorf("getting category: %w", err))
		return
	}

	base, err := s.layout(category.Name, s.newRand())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "product", productPage{
		layout:        base,
		Category:      category,
		Subcategories: NewCarouselView("category-"+category.Slug, category.CarouselItems(), s.carousel),
	})
}

func (s *Site) projects(w http.ResponseWriter, r *http.Request) {
	base, err := s.layout("Projects", s.newRand())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	projects, err := s.store.GetProjects()
	if err != nil {
		s.fail(w, r, fmt.Errorf("getting projects: %w", err))
		return
	}

	// galleries show one photo at a time
	gallery := s.carousel
	gallery.ItemsPerPage = 1

	views := make([]projectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, projectView{
			Project: p,
			Gallery: NewCarouselView("project-"+p.ID.String(), p.CarouselItems(), gallery),
		})
	}

	s.render(w, r, http.StatusOK, "projects", projectsPage{layout: base, Projects: views})
}

func (s *Site) notFound(w http.ResponseWriter, r *http.Request, message string) {
	base, err := s.layout("Not found", s.newRand())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusNotFound, "notfound", notFoundPage{layout: base, Message: message})
}

func (s *Site) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		s.fail(w, r, fmt.Errorf("rendering %s page: %w", name, err))
		return
	}

	body := buf.Bytes()
	if s.format {
		body = gohtml.FormatBytes(body)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(body); err != nil {
		s.logger.Warn("writing page", "page", name, "error", err)
	}
}

func (s *Site) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("rendering page failed", "path", r.URL.Path, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
