package forex

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/raine/menu-translator/internal/cache"
	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL = "https://api.exchangerate-api.com"
	defaultTimeout = 5 * time.Second
)

// Kind classifies a rate lookup failure.
type Kind int

const (
	KindRequest Kind = iota + 1
	KindMalformed
	KindMissingCurrency
	KindInvalidRate
)

func (k Kind) String() string {
	switch k {
	case KindRequest:
		return "request"
	case KindMalformed:
		return "malformed"
	case KindMissingCurrency:
		return "missing_currency"
	case KindInvalidRate:
		return "invalid_rate"
	default:
		return "unknown"
	}
}

// Error is returned by Rate when no usable rate could be obtained.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

type Options struct {
	BaseURL string
	Cache   cache.Cache
	Timeout time.Duration
}

// Client looks up exchange rates from exchangerate-api.com. Successful
// lookups are memoized in the cache by currency pair.
type Client struct {
	httpClient *resty.Client
	cache      cache.Cache
}

func NewClient(opts Options) *Client {
	baseURL := DefaultBaseURL
	if opts.BaseURL != "" {
		baseURL = opts.BaseURL
	}
	timeout := defaultTimeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	c := opts.Cache
	if c == nil {
		c = cache.NewMemory()
	}

	return &Client{
		cache: c,
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

type latestResponse struct {
	Base  string                     `json:"base"`
	Rates map[string]json.RawMessage `json:"rates"`
}

// Rate returns the multiplier that converts an amount in from into to.
// Identical codes return exactly 1.0 without any lookup.
func (c *Client) Rate(ctx context.Context, from, to string) (float64, error) {
	if from == to {
		return 1.0, nil
	}

	key := cache.StringKey(from, to)
	var cached float64
	if ok, err := cache.GetJSON(ctx, c.cache, key, &cached); err != nil {
		log.Warn().Err(err).Msg("failed to check forex cache")
	} else if ok {
		log.Debug().Str("from", from).Str("to", to).Msg("forex cache hit")
		return cached, nil
	}

	rate, err := c.fetch(ctx, from, to)
	if err != nil {
		log.Error().Err(err).Str("from", from).Str("to", to).Msg("exchange rate lookup failed")
		return 0, err
	}

	if err := cache.PutJSON(ctx, c.cache, key, rate); err != nil {
		log.Warn().Err(err).Msg("failed to cache exchange rate")
	}

	return rate, nil
}

func (c *Client) fetch(ctx context.Context, from, to string) (float64, error) {
	res, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("currency", from).
		Get("/v4/latest/{currency}")
	if err != nil {
		return 0, &Error{Kind: KindRequest, Msg: "failed to fetch exchange rate", Err: err}
	}
	if res.IsError() {
		return 0, &Error{Kind: KindRequest, Msg: fmt.Sprintf("failed to fetch exchange rate (status: %d)", res.StatusCode())}
	}

	var data latestResponse
	if err := json.Unmarshal(res.Body(), &data); err != nil {
		return 0, &Error{Kind: KindMalformed, Msg: "invalid exchange rate response", Err: err}
	}
	if data.Rates == nil {
		return 0, &Error{Kind: KindMalformed, Msg: "invalid exchange rate response: no rates"}
	}

	raw, ok := data.Rates[to]
	if !ok {
		return 0, &Error{Kind: KindMissingCurrency, Msg: fmt.Sprintf("currency %s not found in exchange rate data", to)}
	}

	var rate float64
	if err := json.Unmarshal(raw, &rate); err != nil {
		return 0, &Error{Kind: KindMalformed, Msg: "invalid exchange rate response", Err: err}
	}
	if rate <= 0 {
		return 0, &Error{Kind: KindInvalidRate, Msg: fmt.Sprintf("invalid exchange rate: %v", rate)}
	}

	return rate, nil
}
