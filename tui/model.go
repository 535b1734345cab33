// Package tui previews the site carousels in a terminal.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tfkr-ae/foundry/carousel"
)

// cellWidth is the terminal width of one item box, borders included.
const cellWidth = 20

// Carousel is one named strip to preview.
type Carousel struct {
	Name  string
	Items []carousel.Item
}

// frameMsg carries a frame emitted by the player of one carousel.
type frameMsg struct {
	carousel int
	frame    carousel.Frame
}

// frameBuffer is how many frames may wait for the event loop before new ones
// are dropped.
const frameBuffer = 64

type styles struct {
	title     lipgloss.Style
	item      lipgloss.Style
	caption   lipgloss.Style
	active    lipgloss.Style
	inactive  lipgloss.Style
	status    lipgloss.Style
	animating lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		item: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(cellWidth-2).
			Align(lipgloss.Center),
		caption:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		active:    lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
		inactive:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		status:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		animating: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}
}

// Model is the bubbletea model. Each carousel has a carousel.Player; only the
// selected one runs, and its frames reach Update as frameMsg values.
type Model struct {
	carousels []Carousel
	players   []*carousel.Player
	frames    chan frameMsg
	done      chan struct{}
	stop      func()
	clock     carousel.Clock
	cfg       carousel.Config
	perPage   int
	active    int
	paused    bool
	width     int
	frame     carousel.Frame
	keys      keyMap
	help      help.Model
	styles    styles
}

// WithClock replaces the wall clock driving the players, mainly for tests.
func WithClock(clock carousel.Clock) func(*Model) error {
	return func(m *Model) error {
		if clock == nil {
			return errors.New("clock is nil")
		}
		m.clock = clock
		return nil
	}
}

// New validates cfg and builds one stopped player per carousel.
func New(carousels []Carousel, cfg carousel.Config, options ...func(*Model) error) (Model, error) {
	if len(carousels) == 0 {
		return Model{}, errors.New("no carousels to preview")
	}
	if err := cfg.Validate(); err != nil {
		return Model{}, fmt.Errorf("validating carousel config: %w", err)
	}

	m := Model{
		carousels: carousels,
		frames:    make(chan frameMsg, frameBuffer),
		done:      make(chan struct{}),
		cfg:       cfg,
		perPage:   cfg.ItemsPerPage,
		keys:      defaultKeyMap(),
		help:      help.New(),
		styles:    defaultStyles(),
		clock:     carousel.SystemClock,
	}
	for _, option := range options {
		if err := option(&m); err != nil {
			return Model{}, fmt.Errorf("applying option on model: %w", err)
		}
	}

	for i, c := range carousels {
		player, err := carousel.NewPlayer(carousel.New(c.Items, cfg),
			carousel.WithClock(m.clock),
			carousel.WithFrameHandler(m.forward(i)),
		)
		if err != nil {
			return Model{}, fmt.Errorf("creating player for %s: %w", c.Name, err)
		}
		m.players = append(m.players, player)
	}

	players, done := m.players, m.done
	m.stop = sync.OnceFunc(func() {
		for _, p := range players {
			p.Stop()
		}
		close(done)
	})
	m.frame = m.player().Frame()
	return m, nil
}

// forward queues frames of carousel i for the event loop. It runs with the
// player lock held, so it never blocks.
func (m Model) forward(i int) func(carousel.Frame) {
	frames := m.frames
	return func(frame carousel.Frame) {
		select {
		case frames <- frameMsg{carousel: i, frame: frame}:
		default:
		}
	}
}

func (m Model) player() *carousel.Player {
	return m.players[m.active]
}

// listen waits for the next frame, or returns nil once the model is stopped.
func (m Model) listen() tea.Cmd {
	frames, done := m.frames, m.done
	return func() tea.Msg {
		select {
		case msg := <-frames:
			return msg
		case <-done:
			return nil
		}
	}
}

// start runs the selected player unless the preview is paused.
func (m Model) start() {
	if m.paused {
		return
	}
	// only fails when the player already runs
	_ = m.player().Start(context.Background())
}

// Stop cancels every player timer. It is safe to call more than once.
func (m Model) Stop() {
	m.stop()
}

// Init starts the player of the first carousel.
func (m Model) Init() tea.Cmd {
	m.start()
	return m.listen()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		if msg.carousel == m.active {
			m.frame = msg.frame
		}
		return m, m.listen()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.perPage = max(1, min(m.cfg.ItemsPerPage, msg.Width/cellWidth))
		for _, p := range m.players {
			p.SetItemsPerPage(m.perPage)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.player()
	pageWidth := float64(m.perPage * cellWidth)

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Next):
		p.DragEnd(-pageWidth, cellWidth)
	case key.Matches(msg, m.keys.Prev):
		p.DragEnd(pageWidth, cellWidth)
	case key.Matches(msg, m.keys.Jump):
		p.JumpToPage(int(msg.Runes[0] - '1'))
	case key.Matches(msg, m.keys.Switch):
		// the carousel left behind snaps back instead of waiting for its reset
		p.Stop()
		p.Settle()
		m.active = (m.active + 1) % len(m.players)
		m.frame = m.player().Frame()
		m.start()
	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		if m.paused {
			p.Stop()
		} else {
			m.start()
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	current := m.carousels[m.active]
	b.WriteString(m.styles.title.Render(fmt.Sprintf("%s (%d/%d)", current.Name, m.active+1, len(m.carousels))))
	b.WriteString("\n")

	if len(current.Items) == 0 {
		b.WriteString(m.styles.status.Render("no items"))
		b.WriteString("\n")
	} else {
		boxes := make([]string, 0, len(m.frame.Visible))
		for _, item := range m.frame.Visible {
			boxes = append(boxes, m.styles.item.Render(m.styles.caption.Render(item.Caption)))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
		b.WriteString("\n")
	}

	dots := make([]string, 0, len(m.frame.Indicators))
	for _, indicator := range m.frame.Indicators {
		if indicator.Active {
			dots = append(dots, m.styles.active.Render("●"))
		} else {
			dots = append(dots, m.styles.inactive.Render("○"))
		}
	}
	b.WriteString(strings.Join(dots, " "))
	b.WriteString("\n")

	transition := m.styles.animating.Render("animated")
	if !m.frame.TransitionEnabled {
		transition = m.styles.status.Render("snap")
	}
	status := fmt.Sprintf("position %d  page %d/%d  %s  ", m.frame.Position, m.frame.Page+1, m.frame.PageCount, m.frame.State)
	if m.paused {
		status += "paused  "
	}
	b.WriteString(m.styles.status.Render(status) + transition)
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// Run previews carousels until the user quits.
func Run(carousels []Carousel, cfg carousel.Config, options ...tea.ProgramOption) error {
	m, err := New(carousels, cfg)
	if err != nil {
		return err
	}
	defer m.Stop()
	if _, err := tea.NewProgram(m, options...).Run(); err != nil {
		return fmt.Errorf("running carousel preview: %w", err)
	}
	return nil
}
