package bot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/raine/menu-translator/internal/intake"
	"github.com/raine/menu-translator/internal/llm"
	"github.com/raine/menu-translator/internal/menu"
	"github.com/raine/menu-translator/internal/metrics"
	"github.com/raine/menu-translator/internal/storage"
	"github.com/rs/zerolog/log"
)

// BotAPI defines the interface for Telegram bot API operations.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Translator is the part of menu.Service the bot depends on.
type Translator interface {
	Translate(ctx context.Context, imagePath, targetCurrency, model string) (*menu.Translation, error)
}

type Options struct {
	Translator      Translator
	Settings        storage.SettingsStore
	DefaultCurrency string
	DefaultModel    string
	MaxUploadBytes  int64
	// UploadDir holds downloaded images while they are processed. Empty
	// means the OS temp dir.
	UploadDir string
}

// Bot is the Telegram front-end: it receives menu photos and replies with
// their translation.
type Bot struct {
	tg         BotAPI
	opts       Options
	downloader *ImageDownloader
}

// NewBot creates a new Bot instance.
func NewBot(tg BotAPI, opts Options) *Bot {
	downloader := NewImageDownloader()
	if opts.MaxUploadBytes > 0 {
		downloader.WithMaxSize(opts.MaxUploadBytes)
	}
	return &Bot{
		tg:         tg,
		opts:       opts,
		downloader: downloader,
	}
}

// HandleUpdate is the main message router.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	if message == nil {
		return
	}
	log.Info().
		Int64("chatId", message.Chat.ID).
		Str("text", message.Text).
		Bool("photo", len(message.Photo) > 0).
		Msg("got message")

	switch {
	case message.IsCommand():
		b.handleCommand(message)
	case len(message.Photo) > 0:
		// Telegram sends several sizes, the last one is the largest.
		photo := message.Photo[len(message.Photo)-1]
		b.handleMenuImage(ctx, message, photo.FileID, photo.FileUniqueID+".jpg")
	case message.Document != nil && strings.HasPrefix(message.Document.MimeType, "image/"):
		filename := message.Document.FileName
		if filename == "" {
			filename = message.Document.FileUniqueID + ".jpg"
		}
		b.handleMenuImage(ctx, message, message.Document.FileID, filename)
	default:
		b.reply(message.Chat.ID, MsgSendPhoto)
	}
}

func (b *Bot) handleCommand(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	command, args := parseCommand(message.Text)
	currency, model := b.chatSettings(chatID)

	switch command {
	case "/start":
		b.reply(chatID, formatReplyText(MsgStart, currency))
	case "/help":
		b.reply(chatID, formatReplyText(MsgHelp, currency, model))
	case "/currency":
		b.handleCurrencyCommand(chatID, currency, args)
	case "/model":
		b.handleModelCommand(chatID, model, args)
	default:
		b.reply(chatID, MsgUnknownCommand)
	}
}

func (b *Bot) handleCurrencyCommand(chatID int64, current string, args []string) {
	if len(args) == 0 {
		b.replyMarkdown(chatID, formatReplyText(MsgCurrencyCurrent, current))
		return
	}

	code := strings.ToUpper(args[0])
	if !isValidCurrencyCode(code) {
		b.replyMarkdown(chatID, MsgCurrencyInvalid)
		return
	}
	if err := b.opts.Settings.SetChatCurrency(chatID, code); err != nil {
		log.Error().Err(err).Int64("chatId", chatID).Msg("failed to save currency")
		b.reply(chatID, MsgSettingsErr)
		return
	}
	b.reply(chatID, formatReplyText(MsgCurrencyUpdated, code))
}

func (b *Bot) handleModelCommand(chatID int64, current string, args []string) {
	available := "- " + strings.Join(llm.Models(), "\n- ")
	if len(args) == 0 {
		b.replyMarkdown(chatID, formatReplyText(MsgModelCurrent, current, escapeMarkdown(available)))
		return
	}

	model := args[0]
	if !llm.KnownModel(model) {
		b.reply(chatID, formatReplyText(MsgModelInvalid, model, available))
		return
	}
	if err := b.opts.Settings.SetChatModel(chatID, model); err != nil {
		log.Error().Err(err).Int64("chatId", chatID).Msg("failed to save model")
		b.reply(chatID, MsgSettingsErr)
		return
	}
	b.reply(chatID, formatReplyText(MsgModelUpdated, model))
}

// handleMenuImage downloads, validates and translates one menu image. The
// downloaded file is removed on every path.
func (b *Bot) handleMenuImage(ctx context.Context, message *tgbotapi.Message, fileID, filename string) {
	chatID := message.Chat.ID
	start := time.Now()
	outcome := "error"
	defer func() {
		metrics.TranslateRequestsTotal.WithLabelValues("telegram", outcome).Inc()
		metrics.TranslateDurationSeconds.WithLabelValues("telegram").Observe(time.Since(start).Seconds())
	}()

	if _, err := b.tg.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		log.Debug().Err(err).Msg("failed to send typing action")
	}

	data, err := b.downloader.DownloadFromTelegramFileID(ctx, b.tg.GetFileDirectURL, fileID)
	if err != nil {
		log.Error().Err(err).Str("fileID", fileID).Msg("failed to download menu image")
		b.reply(chatID, MsgUnexpectedErr)
		return
	}

	imagePath, err := intake.Save(b.opts.UploadDir, data, filepath.Base(filename), b.opts.MaxUploadBytes)
	if err != nil {
		var vErr *intake.ValidationError
		if errors.As(err, &vErr) {
			outcome = "invalid"
			b.reply(chatID, formatReplyText(MsgInvalidImage, vErr.Msg))
			return
		}
		log.Error().Err(err).Msg("failed to save menu image")
		b.reply(chatID, MsgUnexpectedErr)
		return
	}
	defer func() {
		if err := os.Remove(imagePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", imagePath).Msg("failed to remove menu image")
		}
	}()

	currency, model := b.chatSettings(chatID)
	translation, err := b.opts.Translator.Translate(ctx, imagePath, currency, model)
	if err != nil {
		var tErr *llm.TranslationError
		if errors.As(err, &tErr) {
			log.Error().Err(err).Str("kind", tErr.Kind.String()).Msg("translation error")
			b.reply(chatID, formatReplyText(MsgTranslationFailed, tErr.Error()))
			return
		}
		log.Error().Err(err).Msg("unexpected translation error")
		b.reply(chatID, MsgUnexpectedErr)
		return
	}

	outcome = "success"
	if len(translation.Dishes) == 0 {
		b.reply(chatID, MsgNoDishes)
		return
	}
	for _, chunk := range formatTranslation(translation) {
		b.replyMarkdown(chatID, chunk)
	}
}

// chatSettings returns the chat's currency and model, falling back to the
// configured defaults.
func (b *Bot) chatSettings(chatID int64) (currency, model string) {
	currency, model = b.opts.DefaultCurrency, b.opts.DefaultModel
	if b.opts.Settings == nil {
		return currency, model
	}
	settings, err := b.opts.Settings.GetChatSettings(chatID)
	if err != nil {
		log.Error().Err(err).Int64("chatId", chatID).Msg("failed to load chat settings")
		return currency, model
	}
	if settings == nil {
		return currency, model
	}
	if settings.TargetCurrency != "" {
		currency = settings.TargetCurrency
	}
	if settings.Model != "" {
		model = settings.Model
	}
	return currency, model
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.tg.Send(msg); err != nil {
		log.Error().Err(err).Int64("chatId", chatID).Msg("failed to send message")
	}
}

func (b *Bot) replyMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.tg.Send(msg); err != nil {
		log.Warn().Err(err).Int64("chatId", chatID).Msg("markdown send failed, retrying as plain text")
		b.reply(chatID, text)
	}
}
