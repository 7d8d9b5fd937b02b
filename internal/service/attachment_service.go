package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/classroom-dashboard/internal/models"
	"github.com/noah-isme/classroom-dashboard/pkg/datauri"
	appErrors "github.com/noah-isme/classroom-dashboard/pkg/errors"
)

// Upload is one user-selected file awaiting encoding.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// AttachmentService turns uploads into inline attachments and back.
type AttachmentService struct {
	maxFileSize int64
	logger      *zap.Logger
}

// NewAttachmentService constructs the service. A non-positive limit disables the size check.
func NewAttachmentService(maxFileSize int64, logger *zap.Logger) *AttachmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttachmentService{maxFileSize: maxFileSize, logger: logger}
}

// EncodeAll reads every upload concurrently and returns the attachments in
// selection order. It returns only after every read has finished; the first
// failure cancels the rest and is returned.
func (s *AttachmentService) EncodeAll(ctx context.Context, uploads []Upload) ([]models.FileAttachment, error) {
	out := make([]models.FileAttachment, len(uploads))
	if len(uploads) == 0 {
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, up := range uploads {
		i, up := i, up
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			att, err := s.encode(up)
			if err != nil {
				return err
			}
			out[i] = att
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Warn("attachment encoding failed", zap.Int("files", len(uploads)), zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (s *AttachmentService) encode(up Upload) (models.FileAttachment, error) {
	if s.maxFileSize > 0 && up.Size > s.maxFileSize {
		return models.FileAttachment{}, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("file %q exceeds the %d byte limit", up.Name, s.maxFileSize))
	}
	if up.Open == nil {
		return models.FileAttachment{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file %q cannot be read", up.Name))
	}
	rc, err := up.Open()
	if err != nil {
		return models.FileAttachment{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("failed to read file %q", up.Name))
	}
	defer rc.Close() //nolint:errcheck

	var reader io.Reader = rc
	if s.maxFileSize > 0 {
		reader = io.LimitReader(rc, s.maxFileSize+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.FileAttachment{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("failed to read file %q", up.Name))
	}
	if s.maxFileSize > 0 && int64(len(data)) > s.maxFileSize {
		return models.FileAttachment{}, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("file %q exceeds the %d byte limit", up.Name, s.maxFileSize))
	}

	contentType := strings.TrimSpace(up.ContentType)
	if contentType == "application/octet-stream" {
		contentType = ""
	}
	if contentType == "" {
		contentType = datauri.Detect(data)
	}
	return models.FileAttachment{
		Name:    up.Name,
		Type:    contentType,
		Content: datauri.Encode(contentType, data),
	}, nil
}

// Decoded is an attachment ready to be served as a download.
type Decoded struct {
	Name        string
	ContentType string
	Data        []byte
}

// Decode turns an inline attachment back into bytes.
func (s *AttachmentService) Decode(att models.FileAttachment) (Decoded, error) {
	mediaType, data, err := datauri.Decode(att.Content)
	if err != nil {
		return Decoded{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "File content is empty or corrupt.")
	}
	if mediaType == "" {
		mediaType = att.Type
	}
	if mediaType == "" {
		mediaType = datauri.Detect(data)
	}
	name := att.Name
	if name == "" {
		name = "attachment"
	}
	return Decoded{Name: name, ContentType: mediaType, Data: data}, nil
}
