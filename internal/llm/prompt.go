package llm

import (
	"strings"

	"github.com/lithammer/dedent"
)

var menuPrompt = strings.TrimSpace(dedent.Dedent(`
	Analyze this menu image and extract all menu items. For each dish:
	1. Translate the dish name to English
	2. Provide a simple 1-3 sentence explanation of what the dish is, how its cooked or prepared, and any other relevant details.
	3. Provide a pronunciation guide for the dish name (layman's how to say it, not the phonetic spelling)
	4. Include the original text from the menu
	5. Extract the price if visible (include currency symbol/number, or null if not available)
	6. If a price is found, identify the currency code (e.g., USD, EUR, GBP, JPY, etc.)

	Return a JSON object with this structure:
	{
	  "source_language": "detected language name",
	  "country": "country name from menu (e.g., Vietnam, France, Italy, etc.)",
	  "original_currency": "currency code from menu (e.g., USD, EUR, GBP) or null if no prices found",
	  "dishes": [
	    {
	      "name": "Original dish name from menu. Do not include price, formatters, symbols or description here",
	      "english_name": "English dish name in plain text. Do not include price, formatters, symbols or description here",
	      "description": "1-3 sentence explanation",
	      "pronunciation": "layman's pronunciation guide",
	      "original_text": "original text from menu",
	      "price": "price with currency symbol or null",
	      "price_numeric": numeric_price_value or null
	    }
	  ]
	}

	EXAMPLE RETURN JSON:
	{
	  "source_language": "Vietnamese",
	  "country": "Vietnam",
	  "original_currency": "VND",
	  "dishes": [
	    {
	      "name": "Bắp non xào đông cô",
	      "english_name": "Stir-fried baby corn with shiitake mushrooms",
	      "description": "A simple Vietnamese stir-fry made with baby corn and shiitake mushrooms, quickly cooked over high heat with garlic and seasoning. It's usually served as a light vegetable side dish and may be finished with a mild savory sauce.",
	      "pronunciation": "bup non xao dong co",
	      "original_text": "Bắp non xào đông cô  - .....20.000đ",
	      "price": "20.000đ",
	      "price_numeric": 20000
	    }
	  ]
	}

	Only include actual dishes/food items, not section headers or other text.
`))

// BuildPrompt returns the menu extraction instruction. The target currency
// is not interpolated; prices are converted after the call.
func BuildPrompt(targetCurrency string) string {
	return menuPrompt
}
