package llm

import "context"

// Dish is one menu item as extracted by the vision model.
type Dish struct {
	Name          string   `json:"name"`
	EnglishName   *string  `json:"english_name"`
	Description   string   `json:"description"`
	Pronunciation string   `json:"pronunciation"`
	OriginalText  string   `json:"original_text"`
	Price         *string  `json:"price"`
	PriceNumeric  *float64 `json:"price_numeric"`
}

// MenuAnalysis is the structured payload returned by the vision model.
type MenuAnalysis struct {
	SourceLanguage   string  `json:"source_language"`
	Country          string  `json:"country"`
	OriginalCurrency *string `json:"original_currency"`
	Dishes           []Dish  `json:"dishes"`
}

// Usage contains token usage and cost information.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
	CostUSD      float64
}

// AnalysisResult contains the parsed menu and usage information.
type AnalysisResult struct {
	Menu  *MenuAnalysis
	Usage Usage
}

// Request is a single vision translation call.
type Request struct {
	Image    []byte
	MIMEType string
	Prompt   string
	Model    string
}

// Translator extracts dishes from a menu photo.
type Translator interface {
	Translate(ctx context.Context, req Request) (*AnalysisResult, error)
}
