package llm

import (
	"context"
	"fmt"
	"strings"
)

// Router dispatches a request to the provider that serves its model.
// Model ids starting with "gemini" go to Gemini, everything else to OpenAI.
type Router struct {
	OpenAI Translator
	Gemini Translator
}

// IsGeminiModel reports whether model is served by Gemini.
func IsGeminiModel(model string) bool {
	return strings.HasPrefix(strings.ToLower(model), "gemini")
}

func (r *Router) Translate(ctx context.Context, req Request) (*AnalysisResult, error) {
	provider, name := r.OpenAI, "OpenAI"
	if IsGeminiModel(req.Model) {
		provider, name = r.Gemini, "Gemini"
	}
	if provider == nil {
		return nil, &TranslationError{
			Kind: KindRequest,
			Msg:  fmt.Sprintf("%s is not configured, cannot use model %s", name, req.Model),
		}
	}
	return provider.Translate(ctx, req)
}
