package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/raine/menu-translator/internal/menu"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

// Translator is the part of menu.Service the handlers depend on.
type Translator interface {
	Translate(ctx context.Context, imagePath, targetCurrency, model string) (*menu.Translation, error)
}

type Options struct {
	Translator Translator
	// Searcher enriches dishes with images. Nil disables enrichment.
	Searcher        menu.ImageSearcher
	MaxUploadBytes  int64
	MaxBodyBytes    int64
	DefaultCurrency string
	DefaultModel    string
	// UploadDir holds uploaded images while they are processed. Empty means
	// the OS temp dir.
	UploadDir string
	IndexHTML []byte
}

type Server struct {
	opts   Options
	engine *gin.Engine
}

func New(opts Options) *Server {
	if opts.MaxBodyBytes == 0 {
		opts.MaxBodyBytes = opts.MaxUploadBytes
	}

	s := &Server{opts: opts}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(), limitBody(opts.MaxBodyBytes))

	engine.GET("/", s.handleIndex)
	engine.GET("/status", s.handleStatus)
	engine.POST("/api/translate", s.handleTranslate)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.engine = engine
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info().Msg("stopping http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", s.opts.IndexHTML)
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	}
}

func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"status": "error", "message": "Request body too large"})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
