package server

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/raine/menu-translator/internal/intake"
	"github.com/raine/menu-translator/internal/llm"
	"github.com/raine/menu-translator/internal/menu"
	"github.com/raine/menu-translator/internal/metrics"
	"github.com/rs/zerolog/log"
)

const unexpectedErrorMessage = "An unexpected error occurred during translation"

func errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"status": "error", "message": message})
}

func (s *Server) handleTranslate(c *gin.Context) {
	start := time.Now()
	logger := log.With().Str("requestId", uuid.NewString()).Logger()

	outcome := "error"
	defer func() {
		metrics.TranslateRequestsTotal.WithLabelValues("http", outcome).Inc()
		metrics.TranslateDurationSeconds.WithLabelValues("http").Observe(time.Since(start).Seconds())
	}()

	fileHeader, err := c.FormFile("image")
	if err != nil {
		outcome = "invalid"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			errorResponse(c, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		errorResponse(c, http.StatusBadRequest, "No image file provided")
		return
	}

	currency := strings.ToUpper(strings.TrimSpace(c.DefaultPostForm("currency", s.opts.DefaultCurrency)))
	if currency == "" {
		currency = s.opts.DefaultCurrency
	}
	model := c.DefaultPostForm("model", s.opts.DefaultModel)
	if model == "" {
		model = s.opts.DefaultModel
	}
	includeImages := strings.ToLower(c.DefaultPostForm("include_images", "true")) == "true"

	content, err := readFormFile(fileHeader)
	if err != nil {
		logger.Error().Err(err).Msg("failed to read uploaded file")
		errorResponse(c, http.StatusInternalServerError, unexpectedErrorMessage)
		return
	}

	imagePath, err := intake.Save(s.opts.UploadDir, content, fileHeader.Filename, s.opts.MaxUploadBytes)
	if err != nil {
		var vErr *intake.ValidationError
		if errors.As(err, &vErr) {
			outcome = "invalid"
			errorResponse(c, http.StatusBadRequest, vErr.Msg)
			return
		}
		logger.Error().Err(err).Msg("failed to save uploaded image")
		errorResponse(c, http.StatusInternalServerError, unexpectedErrorMessage)
		return
	}
	defer removeUpload(imagePath)

	logger.Info().
		Str("filename", fileHeader.Filename).
		Str("currency", currency).
		Str("model", model).
		Bool("includeImages", includeImages).
		Msg("translating menu")

	translation, err := s.opts.Translator.Translate(c.Request.Context(), imagePath, currency, model)
	if err != nil {
		var tErr *llm.TranslationError
		if errors.As(err, &tErr) {
			logger.Error().Err(err).Str("kind", tErr.Kind.String()).Msg("translation error")
			errorResponse(c, http.StatusInternalServerError, "Translation failed: "+tErr.Error())
			return
		}
		logger.Error().Err(err).Msg("unexpected error")
		errorResponse(c, http.StatusInternalServerError, unexpectedErrorMessage)
		return
	}

	if includeImages && s.opts.Searcher != nil {
		menu.Enrich(c.Request.Context(), s.opts.Searcher, translation)
	}

	outcome = "success"
	logger.Info().Int("dishes", len(translation.Dishes)).Dur("elapsed", time.Since(start)).Msg("menu translation done")
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": translation})
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func removeUpload(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("path", path).Msg("failed to remove uploaded image")
	}
}
