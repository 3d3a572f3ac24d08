package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/raine/menu-translator/internal/llm"
	"github.com/raine/menu-translator/internal/menu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeTranslator struct {
	result *menu.Translation
	err    error

	calls      int
	imagePath  string
	fileExists bool
	currency   string
	model      string
}

func (f *fakeTranslator) Translate(_ context.Context, imagePath, targetCurrency, model string) (*menu.Translation, error) {
	f.calls++
	f.imagePath = imagePath
	_, statErr := os.Stat(imagePath)
	f.fileExists = statErr == nil
	f.currency = targetCurrency
	f.model = model
	return f.result, f.err
}

type fakeSearcher struct {
	urls  []string
	err   error
	calls int
}

func (f *fakeSearcher) Search(_ context.Context, _, _ string) ([]string, error) {
	f.calls++
	return f.urls, f.err
}

func sampleJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for x := 0; x < 100; x++ {
		for y := 0; y < 100; y++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func multipartRequest(t *testing.T, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if filename != "" || content != nil {
		part, err := w.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/translate", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func paellaTranslation() *menu.Translation {
	rate := 1.0
	return &menu.Translation{
		SourceLanguage: "Spanish",
		Country:        "Spain",
		Dishes: []menu.Dish{{
			Name:        "Paella Valenciana",
			EnglishName: "Valencian Paella",
			Description: "Spanish rice dish.",
		}},
		ExchangeRate:   &rate,
		TargetCurrency: "EUR",
	}
}

type response struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T, translator Translator, searcher menu.ImageSearcher) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	opts := Options{
		Translator:      translator,
		MaxUploadBytes:  10 * 1024 * 1024,
		MaxBodyBytes:    11 * 1024 * 1024,
		DefaultCurrency: "EUR",
		DefaultModel:    "gpt-5-mini",
		UploadDir:       dir,
		IndexHTML:       []byte("<h1>What's On the Menu?</h1>"),
	}
	if searcher != nil {
		opts.Searcher = searcher
	}
	return New(opts), dir
}

func do(t *testing.T, s *Server, req *http.Request) (*httptest.ResponseRecorder, response) {
	t.Helper()
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	var resp response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w, resp
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "uploaded file should be removed")
}

func TestStatus(t *testing.T) {
	s, _ := newTestServer(t, &fakeTranslator{}, nil)
	w, resp := do(t, s, httptest.NewRequest(http.MethodGet, "/status", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", resp.Status)
}

func TestIndex(t *testing.T) {
	s, _ := newTestServer(t, &fakeTranslator{}, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "What's On the Menu?")
}

func TestTranslate_NoImage(t *testing.T) {
	translator := &fakeTranslator{}
	s, _ := newTestServer(t, translator, nil)

	w, resp := do(t, s, multipartRequest(t, "", nil, map[string]string{"currency": "USD"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "No image file provided", resp.Message)
	assert.Equal(t, 0, translator.calls)
}

func TestTranslate_ValidationFailure(t *testing.T) {
	translator := &fakeTranslator{}
	s, dir := newTestServer(t, translator, nil)

	w, resp := do(t, s, multipartRequest(t, "menu.gif", sampleJPEG(t), nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Message, "Unsupported file format")
	assert.Equal(t, 0, translator.calls)
	assertEmptyDir(t, dir)
}

func TestTranslate_Success(t *testing.T) {
	translator := &fakeTranslator{result: paellaTranslation()}
	searcher := &fakeSearcher{urls: []string{"https://img.example/paella.jpg"}}
	s, dir := newTestServer(t, translator, searcher)

	w, resp := do(t, s, multipartRequest(t, "menu.jpg", sampleJPEG(t), map[string]string{
		"currency": "usd",
		"model":    "gemini-3-flash-preview",
	}))

	require.Equal(t, http.StatusOK, w.Code, resp.Message)
	assert.Equal(t, "success", resp.Status)
	assert.True(t, translator.fileExists)
	assert.Equal(t, "USD", translator.currency)
	assert.Equal(t, "gemini-3-flash-preview", translator.model)
	assert.Equal(t, 1, searcher.calls)

	var data menu.Translation
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, "Paella Valenciana", data.Dishes[0].Name)
	assert.Nil(t, data.Dishes[0].ConvertedPrice)
	assert.Equal(t, []string{"https://img.example/paella.jpg"}, data.Dishes[0].ImageURLs)
	assertEmptyDir(t, dir)
}

func TestTranslate_Defaults(t *testing.T) {
	translator := &fakeTranslator{result: paellaTranslation()}
	s, _ := newTestServer(t, translator, nil)

	w, _ := do(t, s, multipartRequest(t, "menu.jpg", sampleJPEG(t), nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "EUR", translator.currency)
	assert.Equal(t, "gpt-5-mini", translator.model)
}

func TestTranslate_PlaceholderWhenNoImagesFound(t *testing.T) {
	translator := &fakeTranslator{result: paellaTranslation()}
	searcher := &fakeSearcher{}
	s, _ := newTestServer(t, translator, searcher)

	w, resp := do(t, s, multipartRequest(t, "menu.jpg", sampleJPEG(t), map[string]string{"include_images": "true"}))
	require.Equal(t, http.StatusOK, w.Code)

	var data menu.Translation
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.Len(t, data.Dishes[0].ImageURLs, 1)
	assert.Contains(t, data.Dishes[0].ImageURLs[0], "Valencian+Paella")
}

func TestTranslate_ImagesDisabled(t *testing.T) {
	translator := &fakeTranslator{result: paellaTranslation()}
	searcher := &fakeSearcher{}
	s, _ := newTestServer(t, translator, searcher)

	w, resp := do(t, s, multipartRequest(t, "menu.jpg", sampleJPEG(t), map[string]string{"include_images": "False"}))
	require.Equal(t, http.StatusOK, w.Code)

	var data menu.Translation
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Nil(t, data.Dishes[0].ImageURLs)
	assert.Equal(t, 0, searcher.calls)
}

func TestTranslate_SearchFailureDoesNotAbort(t *testing.T) {
	translator := &fakeTranslator{result: paellaTranslation()}
	searcher := &fakeSearcher{err: errors.New("brave down")}
	s, _ := newTestServer(t, translator, searcher)

	w, resp := do(t, s, multipartRequest(t, "menu.jpg", sampleJPEG(t), nil))
	require.Equal(t, http.StatusOK, w.Code)

	var data menu.Translation
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Nil(t, data.Dishes[0].ImageURLs)
}

func TestTranslate_TranslationError(t *testing.T) {
	translator := &fakeTranslator{err: &llm.TranslationError{Kind: llm.KindNoChoices, Msg: "No response from model"}}
	s, dir := newTestServer(t, translator, nil)

	w, resp := do(t, s, multipartRequest(t, "menu.jpg", sampleJPEG(t), nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "Translation failed: No response from model", resp.Message)
	assert.True(t, translator.fileExists)
	assertEmptyDir(t, dir)
}

func TestTranslate_UnexpectedError(t *testing.T) {
	translator := &fakeTranslator{err: errors.New("disk on fire at /var/secret")}
	s, dir := newTestServer(t, translator, nil)

	w, resp := do(t, s, multipartRequest(t, "menu.jpg", sampleJPEG(t), nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, unexpectedErrorMessage, resp.Message)
	assert.NotContains(t, resp.Message, "secret")
	assertEmptyDir(t, dir)
}

func TestTranslate_BodyTooLarge(t *testing.T) {
	translator := &fakeTranslator{}
	s := New(Options{
		Translator:     translator,
		MaxUploadBytes: 1024,
		UploadDir:      t.TempDir(),
	})

	w, resp := do(t, s, multipartRequest(t, "menu.jpg", bytes.Repeat([]byte{0xff}, 4096), nil))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 0, translator.calls)
}
