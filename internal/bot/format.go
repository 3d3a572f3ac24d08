package bot

import (
	"fmt"
	"strings"

	"github.com/raine/menu-translator/internal/menu"
	"github.com/shopspring/decimal"
)

// maxMessageLength stays below Telegram's 4096 character limit.
const maxMessageLength = 4000

// formatTranslation renders a translation as Markdown messages. Dishes are
// never split across messages.
func formatTranslation(t *menu.Translation) []string {
	var chunks []string
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(MsgMenuHeader, escapeMarkdown(t.SourceLanguage), escapeMarkdown(t.Country), len(t.Dishes)))
	if t.OriginalCurrency != nil && t.ExchangeRate != nil && *t.OriginalCurrency != t.TargetCurrency {
		sb.WriteString(fmt.Sprintf("\n1 %s = %s %s", *t.OriginalCurrency,
			decimal.NewFromFloat(*t.ExchangeRate).Round(4).String(), t.TargetCurrency))
	}

	for _, d := range t.Dishes {
		entry := formatDish(d, t.TargetCurrency)
		if sb.Len()+len(entry)+2 > maxMessageLength {
			chunks = append(chunks, sb.String())
			sb.Reset()
		} else {
			sb.WriteString("\n\n")
		}
		sb.WriteString(entry)
	}
	if sb.Len() > 0 {
		chunks = append(chunks, sb.String())
	}
	return chunks
}

func formatDish(d menu.Dish, targetCurrency string) string {
	var sb strings.Builder
	sb.WriteString(markdownEntity("*", d.EnglishName))
	if d.Name != d.EnglishName {
		sb.WriteString("\n" + escapeMarkdown(d.Name))
	}
	if d.Pronunciation != "" {
		sb.WriteString(" " + markdownEntity("_", "("+d.Pronunciation+")"))
	}
	if d.Description != "" {
		sb.WriteString("\n" + escapeMarkdown(d.Description))
	}
	if price := formatPrice(d, targetCurrency); price != "" {
		sb.WriteString("\n" + price)
	}
	return sb.String()
}

func formatPrice(d menu.Dish, targetCurrency string) string {
	if d.Price == nil {
		return ""
	}
	price := escapeMarkdown(*d.Price)
	if d.ConvertedPrice != nil {
		converted := decimal.NewFromFloat(*d.ConvertedPrice).StringFixed(2)
		price += fmt.Sprintf(" ≈ %s %s", converted, targetCurrency)
	}
	return price
}
