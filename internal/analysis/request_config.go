package analysis

import (
	"fmt"

	"evidencelens/internal/config"
	"evidencelens/internal/domain"
	"evidencelens/internal/gemini"
)

const defaultDeepThinkingBudget = 32768

// Models names the remote models and knobs each mode uses.
type Models struct {
	Quick              string
	Deep               string
	DeepThinkingBudget int
	MaxOutputTokens    int
}

// ModelsFromConfig reads Models from the Gemini configuration section.
func ModelsFromConfig(cfg *config.GeminiConfig) Models {
	return Models{
		Quick:              cfg.QuickModel,
		Deep:               cfg.DeepModel,
		DeepThinkingBudget: cfg.DeepThinkingBudget,
		MaxOutputTokens:    cfg.MaxOutputTokens,
	}
}

// RequestConfig is the mode-dependent part of an analysis request.
// SearchEnabled and StrictJSON are mutually exclusive on this transport.
type RequestConfig struct {
	Model           string
	ThinkingBudget  *int
	SearchEnabled   bool
	StrictJSON      bool
	MaxOutputTokens int
}

// Validate rejects configurations the remote service cannot honor.
func (c RequestConfig) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("%w: model is required", domain.ErrInvalidOptions)
	}
	if c.SearchEnabled && c.StrictJSON {
		return domain.ErrConflictingRequestConfig
	}
	if c.ThinkingBudget != nil && *c.ThinkingBudget < 0 {
		return fmt.Errorf("%w: thinking budget must not be negative", domain.ErrInvalidOptions)
	}
	return nil
}

// NewRequestConfig builds and validates the preset for mode.
func NewRequestConfig(mode domain.Mode, models Models) (RequestConfig, error) {
	var cfg RequestConfig
	switch mode {
	case domain.ModeQuick:
		cfg = RequestConfig{
			Model:      models.Quick,
			StrictJSON: true,
		}
	case domain.ModeDeep:
		budget := models.DeepThinkingBudget
		if budget <= 0 {
			budget = defaultDeepThinkingBudget
		}
		cfg = RequestConfig{
			Model:          models.Deep,
			ThinkingBudget: &budget,
			SearchEnabled:  true,
		}
	default:
		return RequestConfig{}, fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidOptions, mode)
	}
	cfg.MaxOutputTokens = models.MaxOutputTokens
	if err := cfg.Validate(); err != nil {
		return RequestConfig{}, err
	}
	return cfg, nil
}

func (c RequestConfig) generationConfig() *gemini.GenerationConfig {
	gc := &gemini.GenerationConfig{MaxOutputTokens: c.MaxOutputTokens}
	if c.StrictJSON {
		gc.ResponseMimeType = "application/json"
		gc.ResponseSchema = ResponseSchema()
	}
	if c.ThinkingBudget != nil {
		gc.ThinkingConfig = &gemini.ThinkingConfig{ThinkingBudget: *c.ThinkingBudget}
	}
	return gc
}

func (c RequestConfig) tools() []gemini.Tool {
	if !c.SearchEnabled {
		return nil
	}
	return []gemini.Tool{{GoogleSearch: &gemini.GoogleSearch{}}}
}
