package analysis

import (
	"evidencelens/internal/domain"
	"evidencelens/internal/gemini"
)

// Payload is a fully composed analysis request.
type Payload struct {
	Model   string
	Config  RequestConfig
	Request *gemini.Request
}

// Compose builds the request for parts under opts. It performs no I/O and is
// deterministic for equal inputs.
func Compose(parts []domain.EncodedPart, opts domain.AnalysisOptions, models Models) (*Payload, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	cfg, err := NewRequestConfig(opts.Mode, models)
	if err != nil {
		return nil, err
	}

	contentParts := make([]gemini.Part, 0, len(parts)+1)
	for _, p := range parts {
		contentParts = append(contentParts, gemini.InlinePart(p.MediaType, p.Data))
	}
	contentParts = append(contentParts, gemini.TextPart(BuildAnalysisPrompt(opts, parts)))

	return &Payload{
		Model:  cfg.Model,
		Config: cfg,
		Request: &gemini.Request{
			Contents:         []gemini.Content{{Role: "user", Parts: contentParts}},
			Tools:            cfg.tools(),
			GenerationConfig: cfg.generationConfig(),
		},
	}, nil
}
