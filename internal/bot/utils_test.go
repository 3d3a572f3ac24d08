package bot

import (
	"strings"
	"testing"

	"github.com/raine/menu-translator/internal/menu"
	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		cmd  string
		args []string
	}{
		{"/currency USD", "/currency", []string{"USD"}},
		{"/currency@menu_bot  JPY", "/currency", []string{"JPY"}},
		{"/help", "/help", []string{}},
	}
	for _, tt := range tests {
		cmd, args := parseCommand(tt.in)
		assert.Equal(t, tt.cmd, cmd)
		assert.Equal(t, tt.args, args)
	}
}

func TestIsValidCurrencyCode(t *testing.T) {
	for code, want := range map[string]bool{"EUR": true, "usd": false, "EURO": false, "E1R": false, "": false} {
		if got := isValidCurrencyCode(code); got != want {
			t.Errorf("isValidCurrencyCode(%q) = %v, want %v", code, got, want)
		}
	}
}

func TestFormatTranslation_SplitsLongMenus(t *testing.T) {
	tr := &menu.Translation{SourceLanguage: "Thai", Country: "Thailand", TargetCurrency: "EUR"}
	for i := 0; i < 60; i++ {
		tr.Dishes = append(tr.Dishes, menu.Dish{
			Name:        "ผัดไทย",
			EnglishName: "Pad Thai",
			Description: strings.Repeat("Stir-fried rice noodles. ", 5),
		})
	}

	chunks := formatTranslation(tr)

	assert.Greater(t, len(chunks), 1)
	total := 0
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), maxMessageLength)
		total += strings.Count(c, "*Pad Thai*")
	}
	assert.Equal(t, 60, total)
}

func TestFormatPrice(t *testing.T) {
	price, converted := "18,00 €", 19.456
	assert.Equal(t, "", formatPrice(menu.Dish{}, "USD"))
	assert.Equal(t, "18,00 €", formatPrice(menu.Dish{Price: &price}, "USD"))
	assert.Equal(t, "18,00 € ≈ 19.46 USD", formatPrice(menu.Dish{Price: &price, ConvertedPrice: &converted}, "USD"))
}

func TestMarkdownEntity(t *testing.T) {
	tests := []struct {
		marker, in, want string
	}{
		{"*", "Ramen", "*Ramen*"},
		{"*", "Chef_s *special*", `*Chef*\_*s *\**special*\*`},
		{"_", "(a_b)", `_(a_\__b)_`},
		{"*", "_", `\_`},
		{"*", "", ""},
	}
	for _, tt := range tests {
		if got := markdownEntity(tt.marker, tt.in); got != tt.want {
			t.Errorf("markdownEntity(%q, %q) = %q, want %q", tt.marker, tt.in, got, tt.want)
		}
	}
}

func TestFormatDish_ReservedCharacters(t *testing.T) {
	got := formatDish(menu.Dish{
		Name:          "TONKOTSU_RAMEN",
		EnglishName:   "Tonkotsu_Ramen",
		Pronunciation: "ton_kotsu",
	}, "EUR")

	assert.Equal(t, "*Tonkotsu*\\_*Ramen*\nTONKOTSU\\_RAMEN _(ton_\\__kotsu)_", got)
}
