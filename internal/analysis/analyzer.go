package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"

	"evidencelens/internal/domain"
	"evidencelens/internal/encoder"
	"evidencelens/internal/metrics"
	"evidencelens/internal/port"
)

// PartEncoder turns one source into an encoded part.
type PartEncoder interface {
	Encode(ctx context.Context, src encoder.Source) (*domain.EncodedPart, error)
}

// Result is a completed analysis with the per-file outcomes that fed it.
type Result struct {
	Record   *domain.AnalysisRecord
	Outcomes []domain.SubmissionOutcome
	Model    string
}

// Analyzer drives a multi-file analysis against the remote service.
type Analyzer struct {
	gen    port.ContentGenerator
	enc    PartEncoder
	models Models
	logger *zap.Logger
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(gen port.ContentGenerator, enc PartEncoder, models Models, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{gen: gen, enc: enc, models: models, logger: logger}
}

// SubmitAll analyzes sources and returns the normalized record.
func (a *Analyzer) SubmitAll(ctx context.Context, sources []encoder.Source, opts domain.AnalysisOptions) (*domain.AnalysisRecord, error) {
	res, err := a.Analyze(ctx, sources, opts)
	if err != nil {
		return nil, err
	}
	return res.Record, nil
}

// Analyze encodes every source, sends the usable ones in a single request and
// normalizes the reply. One warning is attached per file that failed to encode.
func (a *Analyzer) Analyze(ctx context.Context, sources []encoder.Source, opts domain.AnalysisOptions) (*Result, error) {
	if !a.gen.HasCredential() {
		return nil, domain.ErrMissingCredential
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	outcomes := a.encodeAll(ctx, sources)

	var parts []domain.EncodedPart
	var warnings []string
	var firstFailure *domain.SubmissionOutcome
	for i := range outcomes {
		o := outcomes[i]
		if o.Fulfilled() {
			parts = append(parts, *o.Part)
			continue
		}
		if firstFailure == nil {
			firstFailure = &outcomes[i]
		}
		warnings = append(warnings, exclusionMessage(o))
	}
	metrics.EncodeFailures.Add(float64(len(warnings)))

	if len(parts) == 0 {
		if firstFailure != nil {
			return nil, &domain.NoUsableInputError{Message: exclusionMessage(*firstFailure)}
		}
		return nil, &domain.NoUsableInputError{Message: "No valid files were supplied for analysis."}
	}

	payload, err := Compose(parts, opts, a.models)
	if err != nil {
		return nil, err
	}

	a.logger.Info("submitting analysis",
		zap.String("model", payload.Model),
		zap.String("mode", string(opts.Mode)),
		zap.Int("included", len(parts)),
		zap.Int("excluded", len(warnings)),
	)

	resp, err := a.gen.GenerateContent(ctx, payload.Model, payload.Request)
	if err != nil {
		classified := ClassifyRemote(err)
		var ufe *domain.UserFacingError
		if errors.As(classified, &ufe) {
			metrics.RemoteFailures.WithLabelValues("analysis", string(ufe.Kind)).Inc()
		}
		a.logger.Warn("analysis request failed", zap.String("model", payload.Model), zap.Error(err))
		return nil, classified
	}

	record, err := Normalize(resp.Text(), resp.Grounding(), warnings)
	if err != nil {
		return nil, err
	}

	return &Result{Record: record, Outcomes: outcomes, Model: payload.Model}, nil
}

// encodeAll starts one encode per source and waits for all of them. A slow
// file never holds back its siblings. Output order matches input order.
func (a *Analyzer) encodeAll(ctx context.Context, sources []encoder.Source) []domain.SubmissionOutcome {
	if len(sources) == 0 {
		return nil
	}
	fanOut := iter.Mapper[encoder.Source, domain.SubmissionOutcome]{MaxGoroutines: len(sources)}
	return fanOut.Map(sources, func(src *encoder.Source) domain.SubmissionOutcome {
		s := *src
		part, err := a.enc.Encode(ctx, s)
		if err != nil {
			a.logger.Warn("file excluded from analysis", zap.String("file", s.Name()), zap.Error(err))
			return domain.SubmissionOutcome{FileName: s.Name(), Reason: failureReason(err)}
		}
		return domain.SubmissionOutcome{FileName: s.Name(), Part: part}
	})
}

func failureReason(err error) string {
	var encErr *domain.EncodingError
	if errors.As(err, &encErr) {
		return encErr.Reason
	}
	return err.Error()
}

func exclusionMessage(o domain.SubmissionOutcome) string {
	return fmt.Sprintf("Unable to include %s in analysis: %s", o.FileName, o.Reason)
}
