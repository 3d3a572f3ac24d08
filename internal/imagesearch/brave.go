package imagesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/raine/menu-translator/internal/cache"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.search.brave.com"
	searchPath     = "/res/v1/images/search"

	resultCount    = 10
	minDimension   = 200
	defaultTimeout = 10 * time.Second

	// DefaultRate keeps uncached calls at least 0.7s apart.
	DefaultRate = rate.Limit(1 / 0.7)
)

// Kind classifies an image search failure.
type Kind int

const (
	KindRequest Kind = iota + 1
	KindDecode
	KindAPI
)

// SearchError is returned when the Brave API could not be queried or
// reported an error. An empty result list is not an error.
type SearchError struct {
	Kind   Kind
	Msg    string
	Params url.Values
	Err    error
}

func (e *SearchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s for %q: %v", e.Msg, e.Params.Get("q"), e.Err)
	}
	return fmt.Sprintf("%s for %q", e.Msg, e.Params.Get("q"))
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// Limiter throttles outgoing requests. *rate.Limiter satisfies it.
type Limiter interface {
	Wait(ctx context.Context) error
}

type ClientOpts struct {
	BaseURL string
	APIKey  string
	Cache   cache.Cache
	Limiter Limiter
	Timeout time.Duration
}

// Client searches dish images with the Brave image search API.
type Client struct {
	httpClient *resty.Client
	apiKey     string
	cache      cache.Cache
	limiter    Limiter
}

func NewClient(opts ClientOpts) *Client {
	c := Client{apiKey: opts.APIKey, cache: opts.Cache, limiter: opts.Limiter}

	baseURL := DefaultBaseURL
	if opts.BaseURL != "" {
		baseURL = opts.BaseURL
	}
	timeout := defaultTimeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	if c.cache == nil {
		c.cache = cache.NewMemory()
	}
	if c.limiter == nil {
		c.limiter = rate.NewLimiter(DefaultRate, 1)
	}

	c.httpClient = resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeaders(map[string]string{
			"Accept":               "application/json",
			"X-Subscription-Token": c.apiKey,
		})

	return &c
}

type searchResponse struct {
	Results []struct {
		Properties struct {
			URL    string `json:"url"`
			Width  int    `json:"width"`
			Height int    `json:"height"`
		} `json:"properties"`
	} `json:"results"`
	Error json.RawMessage `json:"error"`
}

// Search returns image URLs for a dish, in Brave's ranking order. Only
// images at least 200x200 are kept. Results are cached per dish name,
// language and API key.
func (c *Client) Search(ctx context.Context, dishName, language string) ([]string, error) {
	key := cache.StringKey(dishName, language, cache.StringKey(c.apiKey))

	var cached []string
	if ok, err := cache.GetJSON(ctx, c.cache, key, &cached); err != nil {
		log.Warn().Err(err).Msg("failed to check image search cache")
	} else if ok {
		log.Debug().Str("dish", dishName).Msg("image search cache hit")
		return cached, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &SearchError{Kind: KindRequest, Msg: "rate limiter wait failed", Params: searchParams(dishName, language), Err: err}
	}

	urls, err := c.search(ctx, dishName, language)
	if err != nil {
		return nil, err
	}

	if err := cache.PutJSON(ctx, c.cache, key, urls); err != nil {
		log.Warn().Err(err).Msg("failed to cache image search result")
	}

	return urls, nil
}

func (c *Client) search(ctx context.Context, dishName, language string) ([]string, error) {
	params := searchParams(dishName, language)

	res, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		Get(searchPath)
	if err != nil {
		return nil, &SearchError{Kind: KindRequest, Msg: "Brave API request failed", Params: params, Err: err}
	}
	if res.IsError() {
		return nil, &SearchError{Kind: KindRequest, Msg: fmt.Sprintf("Brave API request failed (status: %d)", res.StatusCode()), Params: params}
	}

	var data searchResponse
	if err := json.Unmarshal(res.Body(), &data); err != nil {
		return nil, &SearchError{Kind: KindDecode, Msg: "invalid JSON response from Brave API", Params: params, Err: err}
	}
	if len(data.Error) > 0 && string(data.Error) != "null" {
		return nil, &SearchError{Kind: KindAPI, Msg: fmt.Sprintf("Brave API error: %s", data.Error), Params: params}
	}

	if len(data.Results) == 0 {
		log.Warn().Str("query", params.Get("q")).Msg("no images found")
	}

	urls := make([]string, 0, len(data.Results))
	for _, r := range data.Results {
		p := r.Properties
		if p.Width < minDimension || p.Height < minDimension {
			log.Debug().Int("width", p.Width).Int("height", p.Height).Str("url", p.URL).Msg("skipping small image")
			continue
		}
		if p.URL != "" {
			urls = append(urls, p.URL)
		}
	}

	if len(urls) == 0 {
		log.Warn().Str("query", params.Get("q")).Msg("no valid image urls")
	}

	log.Info().
		Str("query", params.Get("q")).
		Str("searchLang", params.Get("search_lang")).
		Int("count", len(urls)).
		Msg("brave image search")

	return urls, nil
}

// searchParams builds the Brave query parameters. Languages missing from
// the locale table fall back to English and name the language in the query.
func searchParams(dishName, language string) url.Values {
	query := dishName
	locale, ok := Languages[language]
	if !ok {
		query = fmt.Sprintf("%s food %s", dishName, language)
		locale = Locale{SearchLang: "en", Country: "ALL"}
	}

	return url.Values{
		"q":              {query},
		"count":          {strconv.Itoa(resultCount)},
		"search_lang":    {locale.SearchLang},
		"country":        {locale.Country},
		"spellcheck_off": {"true"},
	}
}
