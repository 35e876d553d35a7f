package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"evidencelens/internal/analysis"
	"evidencelens/internal/domain"
	"evidencelens/internal/encoder"
)

// MockDocumentAnalyzer is a mock implementation of service.DocumentAnalyzer.
type MockDocumentAnalyzer struct {
	mock.Mock
}

func (m *MockDocumentAnalyzer) Analyze(ctx context.Context, sources []encoder.Source, opts domain.AnalysisOptions) (*analysis.Result, error) {
	args := m.Called(ctx, sources, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analysis.Result), args.Error(1)
}
