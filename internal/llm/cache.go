package llm

import (
	"context"

	"github.com/raine/menu-translator/internal/cache"
	"github.com/rs/zerolog/log"
)

// CachedTranslator wraps a Translator with a persistent cache keyed by the
// exact image bytes, prompt text and model id.
type CachedTranslator struct {
	inner Translator
	cache cache.Cache
}

// NewCachedTranslator creates a cached translator.
func NewCachedTranslator(inner Translator, c cache.Cache) *CachedTranslator {
	return &CachedTranslator{inner: inner, cache: c}
}

func requestKey(req Request) string {
	return cache.Key(req.Image, []byte(req.Prompt), []byte(req.Model))
}

// Translate implements the Translator interface with caching.
func (c *CachedTranslator) Translate(ctx context.Context, req Request) (*AnalysisResult, error) {
	key := requestKey(req)

	if c.cache != nil {
		var menu MenuAnalysis
		ok, err := cache.GetJSON(ctx, c.cache, key, &menu)
		if err != nil {
			log.Warn().Err(err).Msg("failed to check translation cache")
		} else if ok {
			log.Debug().Str("key", key[:16]).Str("model", req.Model).Msg("translation cache hit")
			return &AnalysisResult{
				Menu:  &menu,
				Usage: Usage{}, // Zero usage for cached result
			}, nil
		}
	}

	result, err := c.inner.Translate(ctx, req)
	if err != nil {
		return nil, err
	}

	if c.cache != nil && result.Menu != nil {
		if err := cache.PutJSON(ctx, c.cache, key, result.Menu); err != nil {
			log.Warn().Err(err).Msg("failed to cache translation result")
		} else {
			log.Debug().Str("key", key[:16]).Msg("cached translation result")
		}
	}

	return result, nil
}
