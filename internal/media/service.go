package media

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dealerhub/dealerhub-backend/pkg/config"
	"github.com/dealerhub/dealerhub-backend/pkg/enums"
	pkgerrors "github.com/dealerhub/dealerhub-backend/pkg/errors"
	"github.com/dealerhub/dealerhub-backend/pkg/imagehost"
	"github.com/dealerhub/dealerhub-backend/pkg/logger"
)

var galleryTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// UploadDTO is the hosted file returned to the client.
type UploadDTO struct {
	URL        string `json:"url"`
	DisplayURL string `json:"display_url"`
	DeleteURL  string `json:"delete_url"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Size       int64  `json:"size"`
}

type uploader interface {
	Upload(ctx context.Context, filename string, data []byte) (*imagehost.UploadResult, error)
}

// Service validates uploads per slot and pushes them to the image host.
type Service interface {
	Upload(ctx context.Context, slot enums.UploadSlot, filename string, data []byte) (*UploadDTO, error)
}

type service struct {
	host uploader
	cfg  config.UploadConfig
	logg *logger.Logger
}

func NewService(host uploader, cfg config.UploadConfig, logg *logger.Logger) (Service, error) {
	if host == nil {
		return nil, fmt.Errorf("image host client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{host: host, cfg: cfg, logg: logg}, nil
}

// Upload checks mime type and size for the slot before any network call.
func (s *service) Upload(ctx context.Context, slot enums.UploadSlot, filename string, data []byte) (*UploadDTO, error) {
	if err := s.validate(slot, data); err != nil {
		return nil, err
	}

	result, err := s.host.Upload(ctx, filename, data)
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithField(ctx, "slot", slot.String()), "media uploaded")
	return &UploadDTO{
		URL:        result.URL,
		DisplayURL: result.DisplayURL,
		DeleteURL:  result.DeleteURL,
		Width:      result.Width,
		Height:     result.Height,
		Size:       result.Size,
	}, nil
}

func (s *service) validate(slot enums.UploadSlot, data []byte) error {
	if len(data) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "file is required").
			WithDetails(map[string]string{"file": "is required"})
	}

	detected := sniffContentType(data)

	switch slot {
	case enums.UploadSlotGallery:
		if _, ok := galleryTypes[detected]; !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "unsupported file type").
				WithDetails(map[string]string{"file": "must be a jpeg, png, gif, or webp image"})
		}
		if max := int64(s.cfg.GalleryMaxMB) << 20; int64(len(data)) > max {
			return pkgerrors.New(pkgerrors.CodeValidation, "file is too large").
				WithDetails(map[string]string{"file": fmt.Sprintf("must be at most %dMB", s.cfg.GalleryMaxMB)})
		}
	case enums.UploadSlotAttachment:
		_, isImage := galleryTypes[detected]
		if !isImage && detected != "application/pdf" {
			return pkgerrors.New(pkgerrors.CodeValidation, "unsupported file type").
				WithDetails(map[string]string{"file": "must be an image or a PDF"})
		}
		if max := int64(s.cfg.AttachmentMaxMB) << 20; int64(len(data)) > max {
			return pkgerrors.New(pkgerrors.CodeValidation, "file is too large").
				WithDetails(map[string]string{"file": fmt.Sprintf("must be at most %dMB", s.cfg.AttachmentMaxMB)})
		}
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "slot must be gallery or attachment").
			WithDetails(map[string]string{"slot": "must be one of: gallery, attachment"})
	}
	return nil
}

// sniffContentType trusts the bytes, not the client-supplied header.
func sniffContentType(data []byte) string {
	detected := http.DetectContentType(data)
	if i := strings.IndexByte(detected, ';'); i >= 0 {
		detected = detected[:i]
	}
	return strings.TrimSpace(detected)
}
