package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// geminiModels is the subset of *genai.Models used by GeminiTranslator.
type geminiModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiTranslator uses Google's Gemini API with a response schema.
type GeminiTranslator struct {
	models geminiModels
}

// NewGeminiTranslator creates a new Gemini-based translator.
func NewGeminiTranslator(ctx context.Context, apiKey string) (*GeminiTranslator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiTranslator{models: client.Models}, nil
}

// Translate implements the Translator interface using Gemini.
func (g *GeminiTranslator) Translate(ctx context.Context, req Request) (*AnalysisResult, error) {
	start := time.Now()

	parts := []*genai.Part{
		genai.NewPartFromText(req.Prompt),
		{InlineData: &genai.Blob{Data: req.Image, MIMEType: req.MIMEType}},
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   geminiMenuSchema(),
	}

	result, err := g.models.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		return nil, &TranslationError{Kind: KindRequest, Msg: "failed to generate content", Err: err}
	}

	if len(result.Candidates) == 0 {
		return nil, &TranslationError{Kind: KindNoChoices, Msg: "Gemini API returned no candidates"}
	}

	candidate := result.Candidates[0]
	usage := Usage{}
	if result.UsageMetadata != nil {
		usage.InputTokens = int64(result.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int64(result.UsageMetadata.CandidatesTokenCount)
		usage.TotalTokens = int64(result.UsageMetadata.TotalTokenCount)
		usage.CostUSD = CalculateCost(req.Model, usage.InputTokens, usage.OutputTokens)
	}
	logUsage(req.Model, usage, string(candidate.FinishReason), time.Since(start))

	if candidate.FinishReason == genai.FinishReasonMaxTokens {
		return nil, truncatedError(usage.OutputTokens)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return nil, &TranslationError{Kind: KindParse, Msg: fmt.Sprintf("empty Gemini response (finish_reason: %s)", candidate.FinishReason)}
	}

	menu, err := ParseMenu([]byte(text))
	if err != nil {
		return nil, &TranslationError{
			Kind: KindParse,
			Msg:  fmt.Sprintf("failed to parse Gemini response (finish_reason: %s)", candidate.FinishReason),
			Err:  err,
		}
	}

	return &AnalysisResult{Menu: menu, Usage: usage}, nil
}
