package main

import (
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/tfkr-ae/foundry/api"
	"github.com/tfkr-ae/foundry/carousel"
	"github.com/tfkr-ae/foundry/domain"
	"github.com/tfkr-ae/foundry/tui"
)

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Preview the site carousels in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			cfg, err := app.Config.ParseCarousel()
			if err != nil {
				return err
			}
			carousels, err := loadCarousels(app.Repo)
			if err != nil {
				return err
			}
			return tui.Run(carousels, cfg, tea.WithAltScreen())
		},
	}
}

// loadCarousels collects every non-empty carousel the site renders: the logo
// strips, then one per category and one per project gallery.
func loadCarousels(store api.Store) ([]tui.Carousel, error) {
	var carousels []tui.Carousel

	names := make([]string, 0, len(api.LogoCarousels))
	for name := range api.LogoCarousels {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		logos, err := store.GetLogosByKind(api.LogoCarousels[name])
		if err != nil {
			return nil, fmt.Errorf("loading %s : %w", name, err)
		}
		carousels = appendCarousel(carousels, name, domain.LogoItems(logos))
	}

	categories, err := store.GetCategories()
	if err != nil {
		return nil, fmt.Errorf("loading categories : %w", err)
	}
	for _, category := range categories {
		carousels = appendCarousel(carousels, category.Name, category.CarouselItems())
	}

	projects, err := store.GetProjects()
	if err != nil {
		return nil, fmt.Errorf("loading projects : %w", err)
	}
	for _, project := range projects {
		carousels = appendCarousel(carousels, project.Title, project.CarouselItems())
	}
	return carousels, nil
}

func appendCarousel(carousels []tui.Carousel, name string, items []carousel.Item) []tui.Carousel {
	if len(items) == 0 {
		return carousels
	}
	return append(carousels, tui.Carousel{Name: name, Items: items})
}
