package menu

import (
	"context"

	"github.com/raine/menu-translator/internal/metrics"
	"github.com/rs/zerolog/log"
)

// ImageSearcher finds representative image URLs for a dish.
type ImageSearcher interface {
	Search(ctx context.Context, dishName, language string) ([]string, error)
}

// Enrich attaches image URLs to every dish, one search at a time. A failed
// search leaves the dish without images; an empty result gets a placeholder.
func Enrich(ctx context.Context, searcher ImageSearcher, t *Translation) {
	for i := range t.Dishes {
		dish := &t.Dishes[i]

		urls, err := searcher.Search(ctx, dish.Name, t.SourceLanguage)
		if err != nil {
			log.Warn().Err(err).Str("dish", dish.Name).Msg("failed to fetch images for dish")
			metrics.ImageSearchTotal.WithLabelValues("error").Inc()
			dish.ImageURLs = nil
			continue
		}

		if len(urls) == 0 {
			metrics.ImageSearchTotal.WithLabelValues("placeholder").Inc()
			dish.ImageURLs = []string{PlaceholderURL(dish.EnglishName)}
			continue
		}

		metrics.ImageSearchTotal.WithLabelValues("found").Inc()
		dish.ImageURLs = urls
	}
}
