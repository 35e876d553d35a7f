package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"evidencelens/internal/analysis"
	"evidencelens/internal/domain"
	"evidencelens/internal/encoder"
	"evidencelens/internal/generator"
	"evidencelens/internal/metrics"
	"evidencelens/internal/port"
)

// MediaService defines the auxiliary generation contract.
type MediaService interface {
	Narration(ctx context.Context, analysisID uuid.UUID) (string, error)
	Speech(ctx context.Context, text string) (string, error)
	Transcribe(ctx context.Context, audio encoder.Source) (string, error)
	Image(ctx context.Context, prompt string) (string, error)
}

type mediaService struct {
	gen          *generator.Generator
	enc          *encoder.Encoder
	analysisRepo port.AnalysisRepository
}

// NewMediaService creates a new MediaService implementation.
func NewMediaService(gen *generator.Generator, enc *encoder.Encoder, analysisRepo port.AnalysisRepository) MediaService {
	return &mediaService{gen: gen, enc: enc, analysisRepo: analysisRepo}
}

func (s *mediaService) Narration(ctx context.Context, analysisID uuid.UUID) (string, error) {
	a, err := s.analysisRepo.GetByID(ctx, analysisID)
	if err != nil {
		return "", err
	}
	script, err := s.gen.NarrationScript(ctx, a.Record)
	return script, observe("narration", err)
}

func (s *mediaService) Speech(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyInput
	}
	uri, err := s.gen.Speech(ctx, text)
	return uri, observe("speech", err)
}

func (s *mediaService) Transcribe(ctx context.Context, audio encoder.Source) (string, error) {
	part, err := s.enc.Encode(ctx, audio)
	if err != nil {
		return "", err
	}
	text, err := s.gen.Transcribe(ctx, part)
	return text, observe("transcription", err)
}

func (s *mediaService) Image(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", domain.ErrEmptyInput
	}
	uri, err := s.gen.Image(ctx, prompt)
	return uri, observe("image", err)
}

// observe classifies err at the service boundary and records the call.
func observe(name string, err error) error {
	if err == nil {
		metrics.GeneratorCalls.WithLabelValues(name, "success").Inc()
		return nil
	}
	err = analysis.ClassifyRemote(err)
	var ufe *domain.UserFacingError
	if errors.As(err, &ufe) {
		metrics.RemoteFailures.WithLabelValues(name, string(ufe.Kind)).Inc()
	}
	metrics.GeneratorCalls.WithLabelValues(name, "error").Inc()
	return err
}
