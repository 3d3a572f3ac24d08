package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"google.golang.org/genai"
)

const schemaName = "menu_translation"

func nullable(typ string, description string) map[string]any {
	return map[string]any{
		"type":        []string{typ, "null"},
		"description": description,
	}
}

func required(typ string, description string) map[string]any {
	return map[string]any{
		"type":        typ,
		"description": description,
	}
}

// MenuSchema returns the JSON schema of MenuAnalysis. It follows the rules
// of OpenAI strict structured outputs: every property is required and
// optional values are expressed as nullable types.
func MenuSchema() map[string]any {
	dish := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":          required("string", "Original dish name from the menu, without price or description"),
			"english_name":  nullable("string", "English dish name in plain text"),
			"description":   required("string", "1-3 sentence explanation of the dish"),
			"pronunciation": required("string", "Layman's pronunciation guide"),
			"original_text": required("string", "Original text from the menu"),
			"price":         nullable("string", "Price with currency symbol"),
			"price_numeric": nullable("number", "Numeric price value"),
		},
		"required":             []string{"name", "english_name", "description", "pronunciation", "original_text", "price", "price_numeric"},
		"additionalProperties": false,
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"source_language":   required("string", "Detected language name"),
			"country":           required("string", "Country name from the menu"),
			"original_currency": nullable("string", "ISO 4217 currency code from the menu"),
			"dishes": map[string]any{
				"type":  "array",
				"items": dish,
			},
		},
		"required":             []string{"source_language", "country", "original_currency", "dishes"},
		"additionalProperties": false,
	}
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func menuValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		b, err := json.Marshal(MenuSchema())
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("menu.json", bytes.NewReader(b)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile("menu.json")
	})
	return compiledSchema, compileErr
}

// ParseMenu validates raw model output against MenuSchema and decodes it.
func ParseMenu(raw []byte) (*MenuAnalysis, error) {
	schema, err := menuValidator()
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return nil, fmt.Errorf("json does not match schema: %w", err)
	}

	var menu MenuAnalysis
	if err := json.Unmarshal(raw, &menu); err != nil {
		return nil, fmt.Errorf("unmarshal menu: %w", err)
	}
	return &menu, nil
}

// geminiMenuSchema mirrors MenuSchema in Gemini's schema dialect.
func geminiMenuSchema() *genai.Schema {
	str := func(desc string, null bool) *genai.Schema {
		s := &genai.Schema{Type: genai.TypeString, Description: desc}
		if null {
			s.Nullable = genai.Ptr(true)
		}
		return s
	}

	dish := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":          str("Original dish name from the menu, without price or description", false),
			"english_name":  str("English dish name in plain text", true),
			"description":   str("1-3 sentence explanation of the dish", false),
			"pronunciation": str("Layman's pronunciation guide", false),
			"original_text": str("Original text from the menu", false),
			"price":         str("Price with currency symbol", true),
			"price_numeric": {Type: genai.TypeNumber, Description: "Numeric price value", Nullable: genai.Ptr(true)},
		},
		Required:         []string{"name", "english_name", "description", "pronunciation", "original_text", "price", "price_numeric"},
		PropertyOrdering: []string{"name", "english_name", "description", "pronunciation", "original_text", "price", "price_numeric"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"source_language":   str("Detected language name", false),
			"country":           str("Country name from the menu", false),
			"original_currency": str("ISO 4217 currency code from the menu", true),
			"dishes":            {Type: genai.TypeArray, Items: dish},
		},
		Required:         []string{"source_language", "country", "original_currency", "dishes"},
		PropertyOrdering: []string{"source_language", "country", "original_currency", "dishes"},
	}
}
