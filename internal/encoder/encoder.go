package encoder

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"evidencelens/internal/domain"
)

const pdfMediaType = "application/pdf"

// Encoder turns sources into base64 inline parts.
type Encoder struct {
	maxBytes int64
	logger   *zap.Logger
}

// New creates an Encoder. A maxBytes of 0 disables the size limit.
func New(maxBytes int64, logger *zap.Logger) *Encoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Encoder{maxBytes: maxBytes, logger: logger}
}

// Encode reads src fully and returns its encoded form. Every failure is an
// *domain.EncodingError naming the file.
func (e *Encoder) Encode(ctx context.Context, src Source) (*domain.EncodedPart, error) {
	name := src.Name()
	if err := ctx.Err(); err != nil {
		return nil, &domain.EncodingError{FileName: name, Reason: err.Error(), Err: err}
	}

	rc, err := src.Open()
	if err != nil {
		return nil, &domain.EncodingError{FileName: name, Reason: "file could not be opened", Err: err}
	}
	defer func() { _ = rc.Close() }()

	var r io.Reader = rc
	if e.maxBytes > 0 {
		r = io.LimitReader(rc, e.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &domain.EncodingError{FileName: name, Reason: "file could not be read", Err: err}
	}
	if e.maxBytes > 0 && int64(len(data)) > e.maxBytes {
		return nil, &domain.EncodingError{
			FileName: name,
			Reason:   "file exceeds maximum allowed size of " + formatLimit(e.maxBytes),
		}
	}
	if len(data) == 0 {
		return nil, &domain.EncodingError{FileName: name, Reason: "file is empty"}
	}

	part := &domain.EncodedPart{
		FileName:  name,
		MediaType: mediaType(src.ContentType(), data),
		Data:      base64.StdEncoding.EncodeToString(data),
		Size:      int64(len(data)),
	}
	if part.MediaType == pdfMediaType {
		part.Pages = e.pageCount(name, data)
	}
	return part, nil
}

// formatLimit renders a byte limit in the largest whole unit.
func formatLimit(n int64) string {
	switch {
	case n%(1024*1024) == 0:
		return fmt.Sprintf("%d MB", n/(1024*1024))
	case n%1024 == 0:
		return fmt.Sprintf("%d KB", n/1024)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}

// mediaType prefers a specific declared type and sniffs otherwise.
func mediaType(declared string, data []byte) string {
	declared = stripParams(declared)
	if declared != "" && declared != "application/octet-stream" && !strings.Contains(declared, "*") {
		return declared
	}
	return stripParams(mimetype.Detect(data).String())
}

func stripParams(ct string) string {
	ct, _, _ = strings.Cut(ct, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}

// pageCount reads a PDF's page count. Failure yields 0 and is not an error.
func (e *Encoder) pageCount(name string, data []byte) (pages int) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Debug("pdf page count panicked", zap.String("file", name), zap.Any("panic", r))
			pages = 0
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		e.logger.Debug("pdf page count failed", zap.String("file", name), zap.Error(err))
		return 0
	}
	return reader.NumPage()
}
