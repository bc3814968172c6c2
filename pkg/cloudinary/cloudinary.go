package cloudinary

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog"
)

// Config contains credentials required to talk to Cloudinary.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Service stores student photos in Cloudinary. Public ids are derived from
// the object name, so re-uploading a student's photo overwrites the previous
// one instead of accumulating copies.
type Service struct {
	client *cloudinary.Cloudinary
	folder string
	logger zerolog.Logger
}

// New constructs a Cloudinary service instance.
func New(cfg Config, logger zerolog.Logger) (*Service, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials must be provided")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &Service{
		client: cld,
		folder: cfg.Folder,
		logger: logger.With().Str("component", "cloudinary").Logger(),
	}, nil
}

// Upload sends the photo to Cloudinary and returns its secure URL.
func (s *Service) Upload(ctx context.Context, name string, reader io.Reader) (string, error) {
	params := uploader.UploadParams{
		Folder:       strings.Trim(s.folder, "/"),
		PublicID:     publicID(name),
		ResourceType: "image",
		Overwrite:    api.Bool(true),
		Invalidate:   api.Bool(true),
	}

	result, err := s.client.Upload.Upload(ctx, reader, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	s.logger.Info().Str("public_id", result.PublicID).Msg("photo uploaded to cloudinary")

	return result.SecureURL, nil
}

// publicID sanitizes the object name into a stable Cloudinary public id.
func publicID(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, base)

	base = strings.Trim(base, "-")
	if base == "" {
		base = "photo"
	}

	return base
}
