package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"evidencelens/internal/analysis"
	"evidencelens/internal/chat"
	"evidencelens/internal/domain"
	"evidencelens/internal/encoder"
	"evidencelens/internal/metrics"
	"evidencelens/internal/port"
	s3storage "evidencelens/internal/storage/s3"
)

// DocumentAnalyzer runs one multi-file analysis.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, sources []encoder.Source, opts domain.AnalysisOptions) (*analysis.Result, error)
}

// AnalyzeInput is the DTO for analysis requests.
type AnalyzeInput struct {
	Sources []encoder.Source
	Options domain.AnalysisOptions
}

// AnalysisService defines the analysis lifecycle contract.
type AnalysisService interface {
	Analyze(ctx context.Context, input AnalyzeInput) (*domain.Analysis, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Analysis, error)
	List(ctx context.Context, offset, limit int) ([]domain.Analysis, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetSourceURL(ctx context.Context, id uuid.UUID, index int) (string, error)
}

type analysisService struct {
	analyzer DocumentAnalyzer
	repo     port.AnalysisRepository
	archive  port.SourceArchive
	chat     *chat.Manager
	maxFiles int
	logger   *zap.Logger
}

// NewAnalysisService creates a new AnalysisService. archive may be nil, which
// disables source archiving.
func NewAnalysisService(
	analyzer DocumentAnalyzer,
	repo port.AnalysisRepository,
	archive port.SourceArchive,
	chatManager *chat.Manager,
	maxFiles int,
	logger *zap.Logger,
) AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &analysisService{
		analyzer: analyzer,
		repo:     repo,
		archive:  archive,
		chat:     chatManager,
		maxFiles: maxFiles,
		logger:   logger,
	}
}

func (s *analysisService) Analyze(ctx context.Context, input AnalyzeInput) (*domain.Analysis, error) {
	if s.maxFiles > 0 && len(input.Sources) > s.maxFiles {
		return nil, fmt.Errorf("%w: %d files supplied, at most %d allowed", domain.ErrTooManyFiles, len(input.Sources), s.maxFiles)
	}

	mode := string(input.Options.Mode)
	start := time.Now()
	res, err := s.analyzer.Analyze(ctx, input.Sources, input.Options)
	metrics.AnalysisDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues(mode, outcomeLabel(err)).Inc()
		return nil, err
	}
	metrics.AnalysesTotal.WithLabelValues(mode, "success").Inc()

	result := &domain.Analysis{
		ID:      uuid.New(),
		Options: input.Options,
		Sources: sourceFiles(res.Outcomes),
		Record:  res.Record,
		Model:   res.Model,
	}

	s.archiveSources(ctx, result, res.Outcomes)

	var boundID *uuid.UUID
	if err := s.repo.Create(ctx, result); err != nil {
		s.logger.Error("failed to store analysis", zap.String("analysis_id", result.ID.String()), zap.Error(err))
		s.discardArchived(ctx, result)
		result.CreatedAt = time.Now().UTC()
	} else {
		id := result.ID
		boundID = &id
	}

	s.chat.Init(result.Record.FullReport, boundID)

	s.logger.Info("analysis completed",
		zap.String("analysis_id", result.ID.String()),
		zap.String("model", result.Model),
		zap.Int("warnings", len(result.Record.ProcessingWarnings)),
		zap.Int("citations", len(result.Record.GroundingURLs)),
	)
	return result, nil
}

// archiveSources uploads every included file. Failures are logged and leave
// S3Key empty.
func (s *analysisService) archiveSources(ctx context.Context, a *domain.Analysis, outcomes []domain.SubmissionOutcome) {
	if s.archive == nil {
		return
	}
	for i, o := range outcomes {
		if !o.Fulfilled() {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(o.Part.Data)
		if err != nil {
			s.logger.Warn("skipping archive of undecodable part", zap.String("file", o.FileName), zap.Error(err))
			continue
		}
		key := s3storage.SourceKey(a.ID, i, o.FileName)
		_, err = s.archive.Upload(ctx, port.UploadInput{
			Key:         key,
			Body:        bytes.NewReader(data),
			ContentType: o.Part.MediaType,
			Size:        int64(len(data)),
		})
		if err != nil {
			s.logger.Warn("failed to archive source", zap.String("file", o.FileName), zap.String("key", key), zap.Error(err))
			continue
		}
		a.Sources[i].S3Key = key
	}
}

// discardArchived removes uploads belonging to an analysis that was never
// stored, so no object outlives its row.
func (s *analysisService) discardArchived(ctx context.Context, a *domain.Analysis) {
	if s.archive == nil {
		return
	}
	for i := range a.Sources {
		key := a.Sources[i].S3Key
		if key == "" {
			continue
		}
		if err := s.archive.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to discard archived source", zap.String("key", key), zap.Error(err))
		}
		a.Sources[i].S3Key = ""
	}
}

func (s *analysisService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Analysis, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *analysisService) List(ctx context.Context, offset, limit int) ([]domain.Analysis, int, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *analysisService) Delete(ctx context.Context, id uuid.UUID) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.chat.Unbind(id)
	if s.archive == nil {
		return nil
	}
	for _, src := range a.Sources {
		if src.S3Key == "" {
			continue
		}
		if err := s.archive.Delete(ctx, src.S3Key); err != nil {
			s.logger.Warn("failed to delete archived source", zap.String("key", src.S3Key), zap.Error(err))
		}
	}
	return nil
}

func (s *analysisService) GetSourceURL(ctx context.Context, id uuid.UUID, index int) (string, error) {
	if s.archive == nil {
		return "", domain.ErrArchiveDisabled
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if index < 0 || index >= len(a.Sources) || a.Sources[index].S3Key == "" {
		return "", domain.ErrNotFound
	}
	return s.archive.GetPresignedURL(ctx, a.Sources[index].S3Key)
}

func sourceFiles(outcomes []domain.SubmissionOutcome) []domain.SourceFile {
	files := make([]domain.SourceFile, 0, len(outcomes))
	for _, o := range outcomes {
		f := domain.SourceFile{FileName: o.FileName, Included: o.Fulfilled(), Reason: o.Reason}
		if o.Part != nil {
			f.MediaType = o.Part.MediaType
			f.Size = o.Part.Size
			f.Pages = o.Part.Pages
		}
		files = append(files, f)
	}
	return files
}

// outcomeLabel names the failure for metrics.
func outcomeLabel(err error) string {
	var ufe *domain.UserFacingError
	var noInput *domain.NoUsableInputError
	var malformed *domain.MalformedResponseError
	switch {
	case errors.As(err, &ufe):
		return string(ufe.Kind)
	case errors.As(err, &noInput):
		return "NO_USABLE_INPUT"
	case errors.As(err, &malformed):
		return "MALFORMED_RESPONSE"
	case errors.Is(err, domain.ErrEmptyResponse):
		return "EMPTY_RESPONSE"
	case errors.Is(err, domain.ErrMissingCredential):
		return "MISSING_CREDENTIAL"
	case errors.Is(err, domain.ErrInvalidOptions):
		return "INVALID_OPTIONS"
	default:
		return "ERROR"
	}
}
