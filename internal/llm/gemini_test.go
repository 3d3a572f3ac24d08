package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeGeminiModels struct {
	resp   *genai.GenerateContentResponse
	err    error
	model  string
	config *genai.GenerateContentConfig
}

func (f *fakeGeminiModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	return f.resp, f.err
}

func geminiResponse(text string, reason genai.FinishReason) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      genai.NewContentFromText(text, genai.RoleModel),
			FinishReason: reason,
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     2000,
			CandidatesTokenCount: 1000,
			TotalTokenCount:      3000,
		},
	}
}

func TestGeminiTranslator_Success(t *testing.T) {
	fake := &fakeGeminiModels{resp: geminiResponse(paellaMenuJSON, genai.FinishReasonStop)}
	translator := &GeminiTranslator{models: fake}

	req := testRequest()
	req.Model = "gemini-3-flash-preview"
	result, err := translator.Translate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Spain", result.Menu.Country)
	assert.Equal(t, "EUR", *result.Menu.OriginalCurrency)
	assert.Equal(t, "gemini-3-flash-preview", fake.model)
	assert.Equal(t, "application/json", fake.config.ResponseMIMEType)
	assert.NotNil(t, fake.config.ResponseSchema)
	assert.InDelta(t, 0.004, result.Usage.CostUSD, 1e-9)
}

func TestGeminiTranslator_Errors(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeGeminiModels
		kind Kind
	}{
		{"request", &fakeGeminiModels{err: errors.New("quota exceeded")}, KindRequest},
		{"no candidates", &fakeGeminiModels{resp: &genai.GenerateContentResponse{}}, KindNoChoices},
		{"max tokens", &fakeGeminiModels{resp: geminiResponse(`{"dishes": [`, genai.FinishReasonMaxTokens)}, KindTruncated},
		{"bad json", &fakeGeminiModels{resp: geminiResponse(`not json`, genai.FinishReasonStop)}, KindParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			translator := &GeminiTranslator{models: tt.fake}
			_, err := translator.Translate(context.Background(), testRequest())

			var tErr *TranslationError
			require.True(t, errors.As(err, &tErr))
			assert.Equal(t, tt.kind, tErr.Kind)
		})
	}
}
