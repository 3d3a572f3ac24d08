package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/raine/menu-translator/config"
	"github.com/raine/menu-translator/internal/bot"
	"github.com/raine/menu-translator/internal/cache"
	"github.com/raine/menu-translator/internal/forex"
	"github.com/raine/menu-translator/internal/imagesearch"
	"github.com/raine/menu-translator/internal/llm"
	"github.com/raine/menu-translator/internal/menu"
	"github.com/raine/menu-translator/internal/metrics"
	"github.com/raine/menu-translator/internal/server"
	"github.com/raine/menu-translator/internal/storage"
	"github.com/raine/menu-translator/web"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const logFileName = "menu-translator.log"

// Cache namespaces, one per external collaborator.
const (
	namespaceTranslations = "translations"
	namespaceForex        = "forex"
	namespaceImageSearch  = "image_search"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	config.LoadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		fatal("invalid config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		fatal("%v", err)
	}

	closeLog := setupLogging(cfg.LogLevel)
	defer closeLog()

	store, err := storage.NewSQLiteStore(cfg.CacheDBPath)
	if err != nil {
		fatal("failed to initialize cache store: %v", err)
	}
	defer store.Close()
	log.Info().Str("dbPath", cfg.CacheDBPath).Msg("cache store initialized")

	metrics.Register()

	// Create context that cancels on SIGINT or SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	translator, err := newTranslator(ctx, cfg, store)
	if err != nil {
		fatal("failed to initialize vision translator: %v", err)
	}

	rates := forex.NewClient(forex.Options{
		Cache: observedNamespace(store, namespaceForex, cfg.ForexCacheTTL),
	})
	service := menu.NewService(translator, rates, cfg.DefaultTargetCurrency, cfg.DefaultModel)

	srvOpts := server.Options{
		Translator:      service,
		MaxUploadBytes:  cfg.MaxUploadBytes(),
		DefaultCurrency: cfg.DefaultTargetCurrency,
		DefaultModel:    cfg.DefaultModel,
		IndexHTML:       web.IndexHTML,
	}
	if cfg.BraveAPIKey != "" {
		srvOpts.Searcher = imagesearch.NewClient(imagesearch.ClientOpts{
			APIKey:  cfg.BraveAPIKey,
			Cache:   observedNamespace(store, namespaceImageSearch, 0),
			Limiter: rate.NewLimiter(rate.Limit(cfg.ImageSearchRPS), 1),
		})
		log.Info().Float64("rps", cfg.ImageSearchRPS).Msg("image search enabled")
	} else {
		log.Warn().Msg("BRAVE_API_KEY is not set, image search disabled")
	}

	g, ctx := errgroup.WithContext(ctx)

	srv := server.New(srvOpts)
	g.Go(func() error {
		return srv.Run(ctx, fmt.Sprintf(":%d", cfg.Port))
	})

	if cfg.BotToken != "" {
		tg, err := tgbotapi.NewBotAPI(cfg.BotToken)
		if err != nil {
			fatal("failed to initialize telegram bot: %v", err)
		}
		tg.Debug = false
		log.Info().Str("username", tg.Self.UserName).Msg("authorized on account")

		// Register bot commands for Telegram's command menu
		bot.RegisterCommands(tg)

		b := bot.NewBot(tg, bot.Options{
			Translator:      service,
			Settings:        store,
			DefaultCurrency: cfg.DefaultTargetCurrency,
			DefaultModel:    cfg.DefaultModel,
			MaxUploadBytes:  cfg.MaxUploadBytes(),
		})
		g.Go(func() error {
			return runBot(ctx, tg, b)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("shutdown with error")
	} else {
		log.Info().Msg("shutdown complete")
	}
}

// newTranslator builds the cached, model-routing vision translator from the
// configured provider keys.
func newTranslator(ctx context.Context, cfg *config.Config, store *storage.SQLiteStore) (llm.Translator, error) {
	router := &llm.Router{}
	if cfg.OpenAIAPIKey != "" {
		router.OpenAI = llm.NewOpenAITranslator(cfg.OpenAIAPIKey)
		log.Info().Msg("openai vision translator initialized")
	}
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiTranslator(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		router.Gemini = gemini
		log.Info().Msg("gemini vision translator initialized")
	}

	// Wrap with cache
	return llm.NewCachedTranslator(router, observedNamespace(store, namespaceTranslations, 0)), nil
}

func observedNamespace(store *storage.SQLiteStore, name string, ttl time.Duration) cache.Cache {
	return cache.Observe(store.Namespace(name, ttl), name, metrics.ObserveCacheLookup)
}

func setupLogging(level string) func() {
	if lvl, err := zerolog.ParseLevel(level); err == nil && lvl != zerolog.NoLevel {
		zerolog.SetGlobalLevel(lvl)
	}

	// JOURNAL_STREAM is set by systemd when running as a service.
	// Skip file logging under systemd (journald handles it).
	if _, underSystemd := os.LookupEnv("JOURNAL_STREAM"); underSystemd {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		return func() {}
	}

	// Local development: log to both stderr and file
	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		fatal("failed to open log file: %v", err)
	}

	consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr}
	fileWriter := zerolog.ConsoleWriter{Out: logFile, NoColor: true}
	multiWriter := io.MultiWriter(consoleWriter, fileWriter)
	log.Logger = log.Output(multiWriter)

	log.Info().Str("logFile", logFileName).Msg("logging to file")
	return func() { logFile.Close() }
}

func runBot(ctx context.Context, tg *tgbotapi.BotAPI, b *bot.Bot) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := tg.GetUpdatesChan(updateConfig)

	var wg sync.WaitGroup

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("stopping bot update loop")
			tg.StopReceivingUpdates()
			log.Info().Msg("waiting for active handlers to finish")
			wg.Wait()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				log.Warn().Msg("updates channel closed")
				wg.Wait()
				return nil
			}
			wg.Add(1)
			go func(u tgbotapi.Update) {
				defer wg.Done()
				b.HandleUpdate(ctx, u)
			}(update)
		}
	}
}

func fatal(format string, args ...any) {
	log.Fatal().Msgf(format, args...)
}
