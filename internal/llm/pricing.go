package llm

import "sort"

// ModelPrice is the price in USD per 1M tokens.
type ModelPrice struct {
	Input  float64
	Output float64
}

const fallbackPricingModel = "gpt-5-mini"

var modelPricing = map[string]ModelPrice{
	"gpt-4.1-nano":           {Input: 0.20, Output: 0.80},
	"gpt-5-mini":             {Input: 0.25, Output: 2.00},
	"gpt-4.1-mini":           {Input: 0.80, Output: 3.20},
	"gpt-5.2":                {Input: 1.75, Output: 14.00},
	"gpt-4.1":                {Input: 3.00, Output: 12.00},
	"gpt-5.2-pro":            {Input: 21.00, Output: 168.00},
	"gemini-3-flash-preview": {Input: 0.50, Output: 3.00},
	"gemini-2.5-flash-lite":  {Input: 0.075, Output: 0.30},
}

// CalculateCost estimates the USD cost of a call. Unknown models are priced
// as gpt-5-mini.
func CalculateCost(model string, inputTokens, outputTokens int64) float64 {
	price, ok := modelPricing[model]
	if !ok {
		price = modelPricing[fallbackPricingModel]
	}
	inputCost := float64(inputTokens) / 1_000_000 * price.Input
	outputCost := float64(outputTokens) / 1_000_000 * price.Output
	return inputCost + outputCost
}

// KnownModel reports whether model has an entry in the pricing table.
func KnownModel(model string) bool {
	_, ok := modelPricing[model]
	return ok
}

// Models returns the priced model ids, sorted.
func Models() []string {
	models := make([]string, 0, len(modelPricing))
	for m := range modelPricing {
		models = append(models, m)
	}
	sort.Strings(models)
	return models
}
