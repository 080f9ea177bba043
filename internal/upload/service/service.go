package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	dErrors "warehouse/pkg/domain-errors"
)

// DefaultMaxBytes caps a single uploaded file.
const DefaultMaxBytes int64 = 10 << 20

const thumbnailWidth = 200

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Storage persists an object and returns the path clients use to fetch it.
type Storage interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// Result describes a stored upload. Thumbnail is empty when the image could not be decoded.
type Result struct {
	Path        string `json:"path"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	ContentType string `json:"contentType"`
	Size        int    `json:"size"`
}

type Service struct {
	storage  Storage
	maxBytes int64
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMaxBytes(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

func New(storage Storage, opts ...Option) *Service {
	s := &Service{
		storage:  storage,
		maxBytes: DefaultMaxBytes,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) MaxBytes() int64 { return s.maxBytes }

// Upload sniffs the content type from data, stores the file under a generated
// name and attempts a JPEG thumbnail.
func (s *Service) Upload(ctx context.Context, data []byte) (*Result, error) {
	if len(data) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "file is required")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, dErrors.Newf(dErrors.CodePayloadTooLarge, "file exceeds the %d MB limit", s.maxBytes>>20)
	}
	contentType := sniff(data)
	ext, ok := extensions[contentType]
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnsupportedMedia, "only jpeg, png, gif and webp images are allowed")
	}

	base := uuid.NewString()
	stored, err := s.storage.Put(ctx, base+ext, contentType, data)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store upload")
	}

	result := &Result{Path: stored, ContentType: contentType, Size: len(data)}
	thumb, err := s.thumbnail(ctx, base, data)
	if err != nil {
		s.logger.WarnContext(ctx, "thumbnail skipped",
			"path", stored,
			"content_type", contentType,
			"error", err,
		)
		return result, nil
	}
	result.Thumbnail = thumb
	return result, nil
}

func (s *Service) thumbnail(ctx context.Context, base string, data []byte) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	thumb := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG); err != nil {
		return "", fmt.Errorf("encode thumbnail: %w", err)
	}
	return s.storage.Put(ctx, base+"_thumb.jpg", "image/jpeg", buf.Bytes())
}

func sniff(data []byte) string {
	ct := http.DetectContentType(data)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(ct)
}
