package menu

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/raine/menu-translator/internal/intake"
	"github.com/raine/menu-translator/internal/llm"
	"github.com/rs/zerolog/log"
)

// Dish is a translated menu item, enriched with a converted price and
// optionally with images.
type Dish struct {
	Name           string   `json:"name"`
	EnglishName    string   `json:"english_name"`
	Description    string   `json:"description"`
	ImageURLs      []string `json:"image_urls"`
	OriginalText   string   `json:"original_text"`
	Pronunciation  string   `json:"pronunciation"`
	Price          *string  `json:"price"`
	PriceNumeric   *float64 `json:"-"`
	ConvertedPrice *float64 `json:"converted_price"`
}

// Translation is the result of translating one menu photo.
type Translation struct {
	SourceLanguage   string   `json:"source_language"`
	Country          string   `json:"country"`
	Dishes           []Dish   `json:"dishes"`
	OriginalCurrency *string  `json:"original_currency"`
	ExchangeRate     *float64 `json:"exchange_rate"`
	TargetCurrency   string   `json:"target_currency"`
}

// RateSource resolves the multiplier converting an amount in from into to.
type RateSource interface {
	Rate(ctx context.Context, from, to string) (float64, error)
}

// Service turns a menu photo into a Translation. It does not search for
// images, see Enrich.
type Service struct {
	translator      llm.Translator
	rates           RateSource
	defaultCurrency string
	defaultModel    string
}

func NewService(translator llm.Translator, rates RateSource, defaultCurrency, defaultModel string) *Service {
	return &Service{
		translator:      translator,
		rates:           rates,
		defaultCurrency: defaultCurrency,
		defaultModel:    defaultModel,
	}
}

// Translate reads the image at imagePath, extracts its dishes and converts
// prices into targetCurrency. Empty targetCurrency or model fall back to
// the service defaults.
func (s *Service) Translate(ctx context.Context, imagePath, targetCurrency, model string) (*Translation, error) {
	if targetCurrency == "" {
		targetCurrency = s.defaultCurrency
	}
	if model == "" {
		model = s.defaultModel
	}

	image, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	result, err := s.translator.Translate(ctx, llm.Request{
		Image:    image,
		MIMEType: intake.MIMEType(imagePath),
		Prompt:   llm.BuildPrompt(targetCurrency),
		Model:    model,
	})
	if err != nil {
		return nil, err
	}
	analysis := result.Menu

	var rate *float64
	if analysis.OriginalCurrency != nil && *analysis.OriginalCurrency != "" {
		rate = s.resolveRate(ctx, *analysis.OriginalCurrency, targetCurrency)
	}

	dishes := make([]Dish, 0, len(analysis.Dishes))
	for _, d := range analysis.Dishes {
		dishes = append(dishes, newDish(d, rate))
	}

	log.Info().
		Str("model", model).
		Str("sourceLanguage", analysis.SourceLanguage).
		Int("dishes", len(dishes)).
		Str("targetCurrency", targetCurrency).
		Msg("menu translated")

	return &Translation{
		SourceLanguage:   analysis.SourceLanguage,
		Country:          analysis.Country,
		Dishes:           dishes,
		OriginalCurrency: analysis.OriginalCurrency,
		ExchangeRate:     rate,
		TargetCurrency:   targetCurrency,
	}, nil
}

// resolveRate returns nil when the rate cannot be obtained; prices are then
// left unconverted.
func (s *Service) resolveRate(ctx context.Context, from, to string) *float64 {
	if from == to {
		one := 1.0
		return &one
	}
	if s.rates == nil {
		return nil
	}
	r, err := s.rates.Rate(ctx, from, to)
	if err != nil {
		log.Warn().Err(err).Str("from", from).Str("to", to).Msg("failed to get exchange rate")
		return nil
	}
	return &r
}

func newDish(d llm.Dish, rate *float64) Dish {
	english := d.Name
	if d.EnglishName != nil && *d.EnglishName != "" {
		english = *d.EnglishName
	}

	var converted *float64
	if d.PriceNumeric != nil && rate != nil {
		v := *d.PriceNumeric * *rate
		converted = &v
	}

	return Dish{
		Name:           d.Name,
		EnglishName:    english,
		Description:    d.Description,
		OriginalText:   d.OriginalText,
		Pronunciation:  d.Pronunciation,
		Price:          d.Price,
		PriceNumeric:   d.PriceNumeric,
		ConvertedPrice: converted,
	}
}

// PlaceholderURL returns the image shown for a dish with no search results.
func PlaceholderURL(name string) string {
	return "https://via.placeholder.com/400x300?text=" + strings.ReplaceAll(name, " ", "+")
}
