// Package carousel implements the auto-advancing item strip used by the
// certification, client and subcategory scrollers.
//
// A Controller is a two-state machine. While Sliding, every Tick moves the
// strip one item (Loop mode) or one page (Paged mode) with the transition
// enabled. In Loop mode the item list is rendered twice; once the position has
// crossed into the copy the controller enters Resetting, and the owner calls
// Settle after Config.TransitionDuration to jump back to the start with the
// transition disabled for exactly one frame, which hides the jump.
//
// Controller is not safe for concurrent use. Player drives one from timers and
// serialises access.
package carousel

import "math"

// State is the phase of the loop state machine.
type State int

const (
	// Sliding is the normal phase, positions change with animation.
	Sliding State = iota
	// Resetting means the copy has been fully traversed and a Settle is due.
	Resetting
)

func (s State) String() string {
	if s == Resetting {
		return "resetting"
	}
	return "sliding"
}

// Item is one entry of the strip.
type Item struct {
	ID       string `json:"id"`
	Caption  string `json:"caption"`
	ImageURL string `json:"image_url"`
}

// Indicator is one page dot below the strip.
type Indicator struct {
	Index  int  `json:"index"`
	Active bool `json:"active"`
}

// Frame is everything the rendering layer needs to draw the strip.
type Frame struct {
	Position          int         `json:"position"`
	Page              int         `json:"page"`
	PageCount         int         `json:"page_count"`
	OffsetPercent     float64     `json:"offset_percent"`
	TransitionEnabled bool        `json:"transition_enabled"`
	TransitionMillis  int64       `json:"transition_ms"`
	State             string      `json:"state"`
	Indicators        []Indicator `json:"indicators"`
	Visible           []Item      `json:"visible"`
}

// Controller holds the position of one carousel.
type Controller struct {
	items             []Item
	cfg               Config
	position          int
	transitionEnabled bool
	state             State
}

// New creates a controller over items. The slice is copied and never mutated.
// An ItemsPerPage below 1 is treated as 1.
func New(items []Item, cfg Config) *Controller {
	if cfg.ItemsPerPage < 1 {
		cfg.ItemsPerPage = 1
	}
	owned := make([]Item, len(items))
	copy(owned, items)

	return &Controller{
		items:             owned,
		cfg:               cfg,
		transitionEnabled: true,
		state:             Sliding,
	}
}

// Config returns the controller configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// Items returns a copy of the original item list.
func (c *Controller) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Extended returns the item list concatenated with itself once.
func (c *Controller) Extended() []Item {
	out := make([]Item, 0, 2*len(c.items))
	out = append(out, c.items...)
	out = append(out, c.items...)
	return out
}

// ExtendedLen is the length of the rendered strip in Loop mode.
func (c *Controller) ExtendedLen() int {
	return 2 * len(c.items)
}

// Position returns the raw position: items scrolled past in Loop mode, the
// page index in Paged mode.
func (c *Controller) Position() int {
	return c.position
}

// State returns the current phase.
func (c *Controller) State() State {
	return c.state
}

// TransitionEnabled reports whether the next position change animates.
func (c *Controller) TransitionEnabled() bool {
	return c.transitionEnabled
}

// PageCount returns ceil(len(items) / ItemsPerPage), never less than 1.
func (c *Controller) PageCount() int {
	return PageCount(len(c.items), c.cfg.ItemsPerPage)
}

// PageCount returns ceil(n / perPage) clamped to at least 1.
func PageCount(n, perPage int) int {
	if perPage < 1 {
		perPage = 1
	}
	pages := (n + perPage - 1) / perPage
	if pages < 1 {
		return 1
	}
	return pages
}

// Tick advances the carousel by one step. It reports true when the step
// crossed into the duplicated tail and Settle has to be called after
// Config.TransitionDuration.
func (c *Controller) Tick() bool {
	if len(c.items) == 0 {
		return false
	}

	switch c.cfg.Mode {
	case Paged:
		c.position = (c.position + 1) % c.PageCount()
	default:
		c.position = (c.position + 1) % c.ExtendedLen()
	}
	return c.positionChanged()
}

// positionChanged runs after every position change.
func (c *Controller) positionChanged() bool {
	if c.cfg.Mode == Loop && len(c.items) > 0 && c.position >= c.ExtendedLen()/2 {
		c.state = Resetting
		return true
	}
	c.state = Sliding
	c.transitionEnabled = true
	return false
}

// Settle applies the delayed invisible reset. It is a no-op unless the
// controller is Resetting, so a stale reset after a jump does nothing.
func (c *Controller) Settle() bool {
	if c.state != Resetting {
		return false
	}
	c.transitionEnabled = false
	c.position = 0
	c.state = Sliding
	return true
}

// JumpTo sets the raw position to i: an item index in Loop mode, a page in
// Paged mode. i is clamped to the valid range and a pending reset is cancelled.
func (c *Controller) JumpTo(i int) {
	if len(c.items) == 0 {
		c.position = 0
		c.state = Sliding
		return
	}

	upper := c.PageCount() - 1
	if c.cfg.Mode == Loop {
		upper = len(c.items) - 1
	}
	c.position = clamp(i, 0, upper)
	c.state = Sliding
	c.transitionEnabled = true
}

// JumpToPage moves the window to the first item of page, clamped to the page
// range. This is what an indicator click does; the matching indicator is
// active afterwards in both modes.
func (c *Controller) JumpToPage(page int) {
	page = clamp(page, 0, c.PageCount()-1)
	if c.cfg.Mode == Paged {
		c.JumpTo(page)
		return
	}
	c.JumpTo(page * c.cfg.ItemsPerPage)
}

// DragEnd snaps to the page nearest to where a manual drag ended. offsetDelta
// is the pointer movement in pixels: negative when the strip was dragged to
// the left, towards later items. The resulting page is clamped, no wrapping.
func (c *Controller) DragEnd(offsetDelta float64, itemWidth float64) int {
	if len(c.items) == 0 || itemWidth <= 0 {
		c.position = 0
		c.state = Sliding
		return 0
	}

	pageWidth := itemWidth * float64(c.cfg.ItemsPerPage)
	current := float64(c.Page()) * pageWidth
	target := int(math.Round((current - offsetDelta) / pageWidth))
	page := clamp(target, 0, c.PageCount()-1)

	if c.cfg.Mode == Paged {
		c.position = page
	} else {
		c.position = page * c.cfg.ItemsPerPage
	}
	c.state = Sliding
	c.transitionEnabled = true
	return page
}

// SetItemsPerPage changes the visible window size. The position is kept; in
// Paged mode it is clamped to the new page count.
func (c *Controller) SetItemsPerPage(perPage int) {
	if perPage < 1 {
		perPage = 1
	}
	c.cfg.ItemsPerPage = perPage
	if c.cfg.Mode == Paged {
		c.position = clamp(c.position, 0, c.PageCount()-1)
	}
}

// Page returns the page the window currently starts in.
func (c *Controller) Page() int {
	if len(c.items) == 0 {
		return 0
	}
	if c.cfg.Mode == Paged {
		return c.position
	}
	return clamp((c.position%len(c.items))/c.cfg.ItemsPerPage, 0, c.PageCount()-1)
}

// scrolled returns how many items have moved out of the window.
func (c *Controller) scrolled() int {
	if len(c.items) == 0 {
		return 0
	}
	if c.cfg.Mode == Paged {
		return c.position * c.cfg.ItemsPerPage
	}
	return c.position
}

// OffsetPercent returns position x (100 / ItemsPerPage).
func (c *Controller) OffsetPercent() float64 {
	return float64(c.scrolled()) * (100 / float64(c.cfg.ItemsPerPage))
}

// OffsetPixels returns position x itemWidth.
func (c *Controller) OffsetPixels(itemWidth float64) float64 {
	return float64(c.scrolled()) * itemWidth
}

// Visible returns the items inside the window.
func (c *Controller) Visible() []Item {
	if len(c.items) == 0 {
		return []Item{}
	}

	if c.cfg.Mode == Paged {
		start := c.scrolled()
		end := min(start+c.cfg.ItemsPerPage, len(c.items))
		out := make([]Item, end-start)
		copy(out, c.items[start:end])
		return out
	}

	extended := c.Extended()
	out := make([]Item, 0, c.cfg.ItemsPerPage)
	for i := 0; i < c.cfg.ItemsPerPage && i < len(c.items); i++ {
		out = append(out, extended[(c.position+i)%len(extended)])
	}
	return out
}

// Frame returns the render state. The disabled transition that hides a reset
// is reported by exactly one Frame call; afterwards it is enabled again.
func (c *Controller) Frame() Frame {
	pages := c.PageCount()
	active := c.Page()
	indicators := make([]Indicator, pages)
	for i := range indicators {
		indicators[i] = Indicator{Index: i, Active: i == active}
	}

	frame := Frame{
		Position:          c.position,
		Page:              active,
		PageCount:         pages,
		OffsetPercent:     c.OffsetPercent(),
		TransitionEnabled: c.transitionEnabled,
		TransitionMillis:  c.cfg.TransitionDuration.Milliseconds(),
		State:             c.state.String(),
		Indicators:        indicators,
		Visible:           c.Visible(),
	}

	if !c.transitionEnabled {
		c.transitionEnabled = true
	}
	return frame
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
