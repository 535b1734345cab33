package carousel

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Mode selects how the carousel wraps around the end of its item list.
type Mode int

const (
	// Loop renders the item list twice and slides across the copy before
	// snapping back to the start with the transition disabled.
	Loop Mode = iota
	// Paged advances a page index modulo the page count.
	Paged
)

// ErrInvalidConfig is returned when a Config cannot drive a carousel.
var ErrInvalidConfig = errors.New("invalid carousel config")

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case Loop:
		return "loop"
	case Paged:
		return "paged"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts "loop" or "paged" (case insensitive) to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "loop":
		return Loop, nil
	case "paged", "page":
		return Paged, nil
	default:
		return Loop, fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, s)
	}
}

// Config holds the values supplied by the owning page at construction time.
//
// TransitionDuration is shared between the rendering layer and the reset
// scheduler so the two can never drift apart.
type Config struct {
	ItemsPerPage       int           // Number of items visible in the window.
	Interval           time.Duration // Delay between two automatic ticks.
	TransitionDuration time.Duration // Length of the slide animation, also the reset delay.
	Mode               Mode          // Loop or Paged.
}

// DefaultConfig returns the configuration used by the site's logo strips.
func DefaultConfig() Config {
	return Config{
		ItemsPerPage:       4,
		Interval:           3000 * time.Millisecond,
		TransitionDuration: 700 * time.Millisecond,
		Mode:               Loop,
	}
}

// Validate checks the configuration. The reset scheduled by a tick must fire
// before the next tick, so the transition has to be shorter than the interval.
func (c Config) Validate() error {
	if c.ItemsPerPage < 1 {
		return fmt.Errorf("%w: items per page must be at least 1, got %d", ErrInvalidConfig, c.ItemsPerPage)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive, got %s", ErrInvalidConfig, c.Interval)
	}
	if c.TransitionDuration < 0 {
		return fmt.Errorf("%w: transition duration must not be negative, got %s", ErrInvalidConfig, c.TransitionDuration)
	}
	if c.TransitionDuration >= c.Interval {
		return fmt.Errorf("%w: transition duration %s must be shorter than interval %s", ErrInvalidConfig, c.TransitionDuration, c.Interval)
	}
	if c.Mode != Loop && c.Mode != Paged {
		return fmt.Errorf("%w: unknown mode %d", ErrInvalidConfig, int(c.Mode))
	}
	return nil
}
