package generator

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"evidencelens/internal/config"
	"evidencelens/internal/domain"
	"evidencelens/internal/gemini"
	"evidencelens/internal/port"
)

// NarrationFallbackPrefix precedes the summary when no script can be generated.
const NarrationFallbackPrefix = "Here is a quick overview of the analysis. "

const transcribeInstruction = `Transcribe this audio clip verbatim. The speaker is discussing medical or scientific research, so prefer the correct spelling of clinical, statistical and pharmacological terms.
Omit filler words (um, uh, like, you know), false starts and background noise. Return only the transcript text with no preamble.`

// Models names the remote models used by each generator.
type Models struct {
	Narration  string
	Speech     string
	Voice      string
	Transcribe string
	Image      string
}

// ModelsFromConfig reads Models from the Gemini configuration section.
func ModelsFromConfig(cfg *config.GeminiConfig) Models {
	return Models{
		Narration:  cfg.ChatModel,
		Speech:     cfg.SpeechModel,
		Voice:      cfg.SpeechVoice,
		Transcribe: cfg.TranscribeModel,
		Image:      cfg.ImageModel,
	}
}

// Generator holds the stateless narration, speech, transcription and image adapters.
type Generator struct {
	gen    port.ContentGenerator
	models Models
	logger *zap.Logger
}

// New creates a Generator.
func New(gen port.ContentGenerator, models Models, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{gen: gen, models: models, logger: logger}
}

// NarrationScript writes a short spoken overview of record. Remote failures
// and empty replies degrade to a templated sentence plus the summary.
func (g *Generator) NarrationScript(ctx context.Context, record *domain.AnalysisRecord) (string, error) {
	if !g.gen.HasCredential() {
		return "", domain.ErrMissingCredential
	}
	fallback := NarrationFallbackPrefix + record.Summary

	req := &gemini.Request{
		Contents: []gemini.Content{{
			Role:  "user",
			Parts: []gemini.Part{gemini.TextPart(buildNarrationPrompt(record))},
		}},
	}
	resp, err := g.gen.GenerateContent(ctx, g.models.Narration, req)
	if err != nil {
		g.logger.Warn("narration script failed, using fallback", zap.Error(err))
		return fallback, nil
	}
	script := strings.TrimSpace(resp.Text())
	if script == "" {
		return fallback, nil
	}
	return script, nil
}

// Speech synthesizes text and returns a data:audio/... URI.
func (g *Generator) Speech(ctx context.Context, text string) (string, error) {
	if !g.gen.HasCredential() {
		return "", domain.ErrMissingCredential
	}
	req := &gemini.Request{
		Contents: []gemini.Content{{Role: "user", Parts: []gemini.Part{gemini.TextPart(text)}}},
		GenerationConfig: &gemini.GenerationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &gemini.SpeechConfig{
				VoiceConfig: &gemini.VoiceConfig{
					PrebuiltVoiceConfig: &gemini.PrebuiltVoiceConfig{VoiceName: g.models.Voice},
				},
			},
		},
	}
	resp, err := g.gen.GenerateContent(ctx, g.models.Speech, req)
	if err != nil {
		return "", err
	}
	inline := resp.InlineData()
	if inline == nil {
		return "", domain.ErrAudioGeneration
	}

	if !isRawPCM(inline.MimeType) {
		return dataURI(inline.MimeType, inline.Data), nil
	}
	pcm, err := base64.StdEncoding.DecodeString(inline.Data)
	if err != nil {
		return "", fmt.Errorf("%w: decoding audio payload: %v", domain.ErrAudioGeneration, err)
	}
	wav := wrapWAV(pcm, sampleRate(inline.MimeType))
	return dataURI("audio/wav", base64.StdEncoding.EncodeToString(wav)), nil
}

// Transcribe converts an encoded audio clip to text. No text yields "".
func (g *Generator) Transcribe(ctx context.Context, audio *domain.EncodedPart) (string, error) {
	if !g.gen.HasCredential() {
		return "", domain.ErrMissingCredential
	}
	req := &gemini.Request{
		Contents: []gemini.Content{{
			Role: "user",
			Parts: []gemini.Part{
				gemini.InlinePart(audio.MediaType, audio.Data),
				gemini.TextPart(transcribeInstruction),
			},
		}},
	}
	resp, err := g.gen.GenerateContent(ctx, g.models.Transcribe, req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text()), nil
}

// Image renders prompt and returns a data:image/... URI.
func (g *Generator) Image(ctx context.Context, prompt string) (string, error) {
	if !g.gen.HasCredential() {
		return "", domain.ErrMissingCredential
	}
	req := &gemini.Request{
		Contents: []gemini.Content{{Role: "user", Parts: []gemini.Part{gemini.TextPart(prompt)}}},
		GenerationConfig: &gemini.GenerationConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
		},
	}
	resp, err := g.gen.GenerateContent(ctx, g.models.Image, req)
	if err != nil {
		return "", err
	}
	inline := resp.InlineData()
	if inline == nil {
		return "", domain.ErrGeneration
	}
	return dataURI(inline.MimeType, inline.Data), nil
}

func dataURI(mimeType, b64 string) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, b64)
}

func buildNarrationPrompt(r *domain.AnalysisRecord) string {
	var sb strings.Builder
	sb.WriteString(`Write a short, friendly narration script (about 150 words) that a presenter could read aloud to summarize this evidence appraisal.
Use plain spoken language with no headings, bullet points, markdown or stage directions.

`)
	fmt.Fprintf(&sb, "Summary: %s\n", r.Summary)
	if len(r.KeyFindings) > 0 {
		fmt.Fprintf(&sb, "Key findings: %s\n", strings.Join(r.KeyFindings, "; "))
	}
	fmt.Fprintf(&sb, "Study type: %s\n", r.StudyType)
	fmt.Fprintf(&sb, "Evidence strength: %s, clarity: %s, document quality: %s\n", r.EvidenceStrength, r.EvidenceClarity, r.DocumentQuality)
	if r.Limitations != "" {
		fmt.Fprintf(&sb, "Limitations: %s\n", r.Limitations)
	}
	fmt.Fprintf(&sb, "Takeaway: %s\n", r.Takeaway)
	return sb.String()
}
