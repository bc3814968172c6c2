package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sanad-app/sanad-go-api/internal/dto"
	"github.com/sanad-app/sanad-go-api/internal/observability"
	"github.com/sanad-app/sanad-go-api/internal/repository"
)

var (
	// ErrPhotoTooLarge indicates the photo exceeded the configured limit.
	ErrPhotoTooLarge = errors.New("photo exceeds maximum allowed size")
	// ErrPhotoTypeNotAllowed indicates the photo is not a supported image type.
	ErrPhotoTypeNotAllowed = errors.New("photo type not allowed")
)

// FileStorage abstracts upload destinations.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// UploadService validates and stores student photos.
type UploadService interface {
	UploadPhoto(ctx context.Context, studentID uint, file *multipart.FileHeader) (dto.UploadResponse, error)
}

type uploadService struct {
	storage  FileStorage
	students repository.StudentRepository
	logger   zerolog.Logger
	maxSize  int64
	tracer   trace.Tracer
}

// NewUploadService constructs an upload service.
func NewUploadService(storage FileStorage, students repository.StudentRepository, maxSizeMB int, logger zerolog.Logger) UploadService {
	if maxSizeMB <= 0 {
		maxSizeMB = 5
	}
	return &uploadService{
		storage:  storage,
		students: students,
		logger:   logger.With().Str("component", "upload_service").Logger(),
		maxSize:  int64(maxSizeMB) * 1024 * 1024,
		tracer:   otel.Tracer("github.com/sanad-app/sanad-go-api/internal/service/upload"),
	}
}

func (s *uploadService) UploadPhoto(ctx context.Context, studentID uint, file *multipart.FileHeader) (dto.UploadResponse, error) {
	ctx, span := s.tracer.Start(ctx, "upload.photo")
	defer span.End()

	span.SetAttributes(
		attribute.Int("student.id", int(studentID)),
		attribute.Int64("upload.max_bytes", s.maxSize),
	)

	start := time.Now()
	defer func() {
		observability.PhotoUploadLatency().Observe(time.Since(start).Seconds())
	}()

	if file == nil {
		err := errors.New("photo file is required")
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.UploadResponse{}, err
	}
	span.SetAttributes(
		attribute.String("upload.original_name", strings.TrimSpace(file.Filename)),
		attribute.Int64("upload.request_size", file.Size),
	)

	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "student lookup failed")
		return dto.UploadResponse{}, err
	}

	if file.Size > s.maxSize {
		observability.PhotoUploadRejected().WithLabelValues("size").Inc()
		span.RecordError(ErrPhotoTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.UploadResponse{}, ErrPhotoTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "open failed")
		return dto.UploadResponse{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return dto.UploadResponse{}, err
	}
	if int64(buf.Len()) > s.maxSize {
		observability.PhotoUploadRejected().WithLabelValues("size").Inc()
		span.RecordError(ErrPhotoTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.UploadResponse{}, ErrPhotoTooLarge
	}

	mime := mimetype.Detect(buf.Bytes())
	span.SetAttributes(attribute.String("upload.detected_mime", mime.String()))
	if !isAllowedPhotoType(mime.String()) {
		observability.PhotoUploadRejected().WithLabelValues("type").Inc()
		span.RecordError(ErrPhotoTypeNotAllowed)
		span.SetStatus(codes.Error, "type not allowed")
		return dto.UploadResponse{}, ErrPhotoTypeNotAllowed
	}

	name := photoObjectName(studentID, file.Filename)
	url, err := s.storage.Upload(ctx, name, bytes.NewReader(buf.Bytes()))
	if err != nil {
		observability.PhotoUploadRejected().WithLabelValues("storage").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		return dto.UploadResponse{}, err
	}

	if err := s.students.SetPhotoURL(ctx, studentID, url); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return dto.UploadResponse{}, err
	}

	observability.PhotoUploads().Inc()
	span.SetStatus(codes.Ok, "stored")
	s.logger.Info().Uint("student_id", studentID).Int("size_bytes", buf.Len()).Msg("student photo stored")

	return dto.UploadResponse{
		StudentID: studentID,
		PhotoURL:  url,
	}, nil
}

// Only raster image formats served directly by browsers are accepted.
func isAllowedPhotoType(m string) bool {
	switch strings.ToLower(strings.TrimSpace(m)) {
	case "image/jpeg", "image/png", "image/webp":
		return true
	default:
		return false
	}
}

func photoObjectName(studentID uint, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		ext = ".jpg"
	}
	return fmt.Sprintf("student-%d%s", studentID, ext)
}
