package imagesearch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/raine/menu-translator/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLimiter struct {
	waits int
	err   error
}

func (l *countingLimiter) Wait(ctx context.Context) error {
	l.waits++
	return l.err
}

const resultsJSON = `{"results":[
	{"properties":{"url":"https://img.example/big.jpg","width":800,"height":600}},
	{"properties":{"url":"https://img.example/narrow.jpg","width":150,"height":600}},
	{"properties":{"url":"https://img.example/short.jpg","width":600,"height":199}},
	{"properties":{"url":"","width":400,"height":400}},
	{"properties":{"url":"https://img.example/edge.jpg","width":200,"height":200}}
]}`

func TestSearch_FiltersAndKeepsOrder(t *testing.T) {
	var req *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req = r
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(resultsJSON))
	}))
	defer ts.Close()

	limiter := &countingLimiter{}
	client := NewClient(ClientOpts{BaseURL: ts.URL, APIKey: "secret", Limiter: limiter})

	urls, err := client.Search(context.Background(), "Phở bò", "Vietnamese")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://img.example/big.jpg", "https://img.example/edge.jpg"}, urls)

	assert.Equal(t, searchPath, req.URL.Path)
	assert.Equal(t, "secret", req.Header.Get("X-Subscription-Token"))
	q := req.URL.Query()
	assert.Equal(t, "Phở bò", q.Get("q"))
	assert.Equal(t, "10", q.Get("count"))
	assert.Equal(t, "vi", q.Get("search_lang"))
	assert.Equal(t, "ALL", q.Get("country"))
	assert.Equal(t, "true", q.Get("spellcheck_off"))
	assert.Equal(t, 1, limiter.waits)
}

func TestSearch_UnknownLanguageFallsBack(t *testing.T) {
	var query map[string][]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Write([]byte(`{"results":[]}`))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL, APIKey: "k", Limiter: &countingLimiter{}})
	urls, err := client.Search(context.Background(), "Khachapuri", "Georgian")
	require.NoError(t, err)
	assert.Empty(t, urls)

	assert.Equal(t, []string{"Khachapuri food Georgian"}, query["q"])
	assert.Equal(t, []string{"en"}, query["search_lang"])
	assert.Equal(t, []string{"ALL"}, query["country"])
}

func TestSearch_CachesAndSkipsLimiterOnHit(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(resultsJSON))
	}))
	defer ts.Close()

	mem := cache.NewMemory()
	limiter := &countingLimiter{}
	client := NewClient(ClientOpts{BaseURL: ts.URL, APIKey: "k1", Cache: mem, Limiter: limiter})

	first, err := client.Search(context.Background(), "Paella", "Spanish")
	require.NoError(t, err)
	second, err := client.Search(context.Background(), "Paella", "Spanish")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, limiter.waits)

	// A different credential does not see the old entry
	rotated := NewClient(ClientOpts{BaseURL: ts.URL, APIKey: "k2", Cache: mem, Limiter: limiter})
	_, err = rotated.Search(context.Background(), "Paella", "Spanish")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, mem.Len())
}

func TestSearch_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   Kind
	}{
		{"http error", http.StatusTooManyRequests, `{}`, KindRequest},
		{"not json", http.StatusOK, `not json`, KindDecode},
		{"api error", http.StatusOK, `{"error":{"code":"invalid token"}}`, KindAPI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			mem := cache.NewMemory()
			client := NewClient(ClientOpts{BaseURL: ts.URL, APIKey: "k", Cache: mem, Limiter: &countingLimiter{}})
			_, err := client.Search(context.Background(), "Paella", "Spanish")

			var sErr *SearchError
			require.True(t, errors.As(err, &sErr))
			assert.Equal(t, tt.kind, sErr.Kind)
			assert.Contains(t, err.Error(), "Paella")
			assert.Equal(t, 0, mem.Len())
		})
	}
}

func TestSearch_LimiterError(t *testing.T) {
	client := NewClient(ClientOpts{BaseURL: "http://127.0.0.1:0", Limiter: &countingLimiter{err: context.Canceled}})
	_, err := client.Search(context.Background(), "Paella", "Spanish")

	var sErr *SearchError
	require.True(t, errors.As(err, &sErr))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLanguagesTable(t *testing.T) {
	assert.GreaterOrEqual(t, len(Languages), 50)
	assert.Equal(t, Locale{SearchLang: "jp", Country: "JP"}, Languages["Japanese"])
	assert.Equal(t, Locale{SearchLang: "es", Country: "ES"}, Languages["Spanish"])
}
