package site

import "github.com/tfkr-ae/foundry/carousel"

// CarouselView is the first frame of a carousel as the templates draw it.
type CarouselView struct {
	ID               string
	Mode             string
	Strip            []carousel.Item
	Indicators       []carousel.Indicator
	ItemsPerPage     int
	ItemWidth        float64
	Offset           float64
	Animate          bool
	TransitionMillis int64
	IntervalMillis   int64
	Empty            bool
}

// NewCarouselView lays out items for the initial render. Loop mode draws the
// doubled strip so the track can slide into the copy before snapping back;
// paged mode draws each item once.
func NewCarouselView(id string, items []carousel.Item, cfg carousel.Config) CarouselView {
	c := carousel.New(items, cfg)
	cfg = c.Config()
	frame := c.Frame()

	strip := c.Extended()
	if cfg.Mode == carousel.Paged {
		strip = c.Items()
	}

	return CarouselView{
		ID:               id,
		Mode:             cfg.Mode.String(),
		Strip:            strip,
		Indicators:       frame.Indicators,
		ItemsPerPage:     cfg.ItemsPerPage,
		ItemWidth:        100 / float64(max(cfg.ItemsPerPage, 1)),
		Offset:           frame.OffsetPercent,
		Animate:          frame.TransitionEnabled,
		TransitionMillis: frame.TransitionMillis,
		IntervalMillis:   cfg.Interval.Milliseconds(),
		Empty:            len(items) == 0,
	}
}
