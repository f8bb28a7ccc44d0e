package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/labourshub/marketplace/internal/core/domain"
)

var ErrFileTooLarge = errors.New("file exceeds size limit")
var ErrDisallowedType = errors.New("invalid file type")

// extByType maps the accepted content types to their stored extension.
// The type is sniffed from the file's leading bytes, never trusted from the
// request headers.
var extByType = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}

// Store writes uploaded files into a server-controlled directory and returns
// references by relative path, which persisted records carry.
type Store struct {
	dir      string
	maxBytes int64
}

// NewStore creates the upload directory if needed.
func NewStore(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, maxBytes: maxBytes}, nil
}

// Dir returns the directory files are stored under, for static serving.
func (s *Store) Dir() string {
	return s.dir
}

// Save validates and stores one uploaded file under a random name.
func (s *Store) Save(fh *multipart.FileHeader) (*domain.FileRef, error) {
	if fh.Size > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	contentType := http.DetectContentType(head[:n])

	ext, ok := extByType[contentType]
	if !ok {
		return nil, ErrDisallowedType
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("write file: %w", err)
	}
	if written > s.maxBytes {
		_ = os.Remove(dst.Name())
		return nil, ErrFileTooLarge
	}

	return &domain.FileRef{
		Filename: name,
		Path:     "uploads/" + name,
		MimeType: contentType,
		Size:     written,
	}, nil
}
