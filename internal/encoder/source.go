package encoder

import (
	"bytes"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// Source is anything the encoder can read a file from.
type Source interface {
	Name() string
	// ContentType is the declared media type, or "" when unknown.
	ContentType() string
	Open() (io.ReadCloser, error)
}

// FileHeaderSource reads a multipart upload.
type FileHeaderSource struct {
	Header *multipart.FileHeader
}

func (s FileHeaderSource) Name() string { return s.Header.Filename }

func (s FileHeaderSource) ContentType() string { return s.Header.Header.Get("Content-Type") }

func (s FileHeaderSource) Open() (io.ReadCloser, error) { return s.Header.Open() }

// PathSource reads a local file.
type PathSource struct {
	Path string
}

func (s PathSource) Name() string { return filepath.Base(s.Path) }

func (s PathSource) ContentType() string { return "" }

func (s PathSource) Open() (io.ReadCloser, error) { return os.Open(s.Path) }

// BytesSource serves an in-memory blob.
type BytesSource struct {
	FileName string
	MimeType string
	Data     []byte
}

func (s BytesSource) Name() string { return s.FileName }

func (s BytesSource) ContentType() string { return s.MimeType }

func (s BytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.Data)), nil
}
