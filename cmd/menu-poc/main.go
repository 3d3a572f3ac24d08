package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/raine/menu-translator/config"
	"github.com/raine/menu-translator/internal/forex"
	"github.com/raine/menu-translator/internal/intake"
	"github.com/raine/menu-translator/internal/llm"
	"github.com/raine/menu-translator/internal/menu"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <image-path> [model] [currency]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment variables:\n")
		fmt.Fprintf(os.Stderr, "  OPENAI_API_KEY - Required for OpenAI models\n")
		fmt.Fprintf(os.Stderr, "  GEMINI_API_KEY - Required for gemini-* models\n")
		fmt.Fprintf(os.Stderr, "\nModels: %s\n", strings.Join(llm.Models(), ", "))
		os.Exit(1)
	}

	config.LoadEnvFile()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	imagePath := os.Args[1]
	model := cfg.DefaultModel
	if len(os.Args) >= 3 {
		model = os.Args[2]
	}
	currency := cfg.DefaultTargetCurrency
	if len(os.Args) >= 4 {
		currency = strings.ToUpper(os.Args[3])
	}

	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read image: %v\n", err)
		os.Exit(1)
	}
	if err := intake.Validate(imageData, imagePath, cfg.MaxUploadBytes()); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	translator, err := newTranslator(ctx, cfg, model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating translator: %v\n", err)
		os.Exit(1)
	}

	usage := &usageRecorder{inner: translator}
	service := menu.NewService(usage, forex.NewClient(forex.Options{}), currency, model)

	result, err := service.Translate(ctx, imagePath, currency, model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error translating menu: %v\n", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
	fmt.Println()
	fmt.Printf("Model:       %s\n", model)
	fmt.Printf("Tokens:      %d in / %d out / %d total\n",
		usage.last.InputTokens, usage.last.OutputTokens, usage.last.TotalTokens)
	fmt.Printf("Cost:        $%.6f\n", usage.last.CostUSD)
}

func newTranslator(ctx context.Context, cfg *config.Config, model string) (llm.Translator, error) {
	if llm.IsGeminiModel(model) {
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is not set")
		}
		return llm.NewGeminiTranslator(ctx, cfg.GeminiAPIKey)
	}
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	return llm.NewOpenAITranslator(cfg.OpenAIAPIKey), nil
}

// usageRecorder keeps the usage of the last call for printing.
type usageRecorder struct {
	inner llm.Translator
	last  llm.Usage
}

func (u *usageRecorder) Translate(ctx context.Context, req llm.Request) (*llm.AnalysisResult, error) {
	result, err := u.inner.Translate(ctx, req)
	if err == nil {
		u.last = result.Usage
	}
	return result, err
}
