package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/raine/menu-translator/internal/metrics"
	"github.com/rs/zerolog/log"
)

const finishReasonLength = "length"

// OpenAITranslator calls the OpenAI chat completions API with a strict JSON
// schema response format.
type OpenAITranslator struct {
	client openai.Client
}

// NewOpenAITranslator creates an OpenAI-backed translator. Extra options
// (base URL, retries) are mostly for tests.
func NewOpenAITranslator(apiKey string, opts ...option.RequestOption) *OpenAITranslator {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAITranslator{client: openai.NewClient(opts...)}
}

// Translate implements the Translator interface using OpenAI.
func (o *OpenAITranslator) Translate(ctx context.Context, req Request) (*AnalysisResult, error) {
	start := time.Now()

	b64Data := base64.StdEncoding.EncodeToString(req.Image)
	dataURL := fmt.Sprintf("data:%s;base64,%s", req.MIMEType, b64Data)

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(req.Prompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: dataURL,
				}),
			}),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   schemaName,
					Schema: MenuSchema(),
					Strict: openai.Bool(true),
				},
			},
		},
	})
	if err != nil {
		return nil, &TranslationError{Kind: KindRequest, Msg: "failed to create chat completion", Err: err}
	}

	if len(resp.Choices) == 0 {
		return nil, &TranslationError{Kind: KindNoChoices, Msg: "OpenAI API returned no choices"}
	}

	choice := resp.Choices[0]
	usage := Usage{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		TotalTokens:  resp.Usage.TotalTokens,
		CostUSD:      CalculateCost(req.Model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens),
	}
	logUsage(req.Model, usage, choice.FinishReason, time.Since(start))

	if choice.FinishReason == finishReasonLength {
		return nil, truncatedError(usage.OutputTokens)
	}

	if choice.Message.Refusal != "" {
		return nil, &TranslationError{Kind: KindParse, Msg: fmt.Sprintf("model refused the request: %s", choice.Message.Refusal)}
	}

	menu, err := ParseMenu([]byte(choice.Message.Content))
	if err != nil {
		return nil, &TranslationError{
			Kind: KindParse,
			Msg:  fmt.Sprintf("failed to parse OpenAI response (finish_reason: %s)", choice.FinishReason),
			Err:  err,
		}
	}

	return &AnalysisResult{Menu: menu, Usage: usage}, nil
}

func logUsage(model string, usage Usage, finishReason string, elapsed time.Duration) {
	metrics.ObserveLLMUsage(model, usage.InputTokens, usage.OutputTokens, usage.CostUSD)

	log.Info().
		Str("model", model).
		Int64("inputTokens", usage.InputTokens).
		Int64("outputTokens", usage.OutputTokens).
		Int64("totalTokens", usage.TotalTokens).
		Float64("costUSD", usage.CostUSD).
		Str("finishReason", finishReason).
		Dur("elapsed", elapsed).
		Msg("vision llm call")
}
