package handler_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/sanad-app/sanad-go-api/internal/dto"
	"github.com/sanad-app/sanad-go-api/internal/handler"
	"github.com/sanad-app/sanad-go-api/internal/service"
)

type stubUploadService struct {
	response dto.UploadResponse
	err      error
	lastID   uint
}

func (s *stubUploadService) UploadPhoto(_ context.Context, studentID uint, _ *multipart.FileHeader) (dto.UploadResponse, error) {
	s.lastID = studentID
	if s.err != nil {
		return dto.UploadResponse{}, s.err
	}
	response := s.response
	response.StudentID = studentID
	return response, nil
}

func newUploadApp(svc *stubUploadService) *fiber.App {
	app := fiber.New()
	handler.NewUploadHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/students"))
	return app
}

func multipartPhotoRequest(t *testing.T, path string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "photo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte{0x89, 0x50, 0x4E, 0x47})
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadHandlerSuccess(t *testing.T) {
	svc := &stubUploadService{response: dto.UploadResponse{PhotoURL: "https://cdn.example.com/student-6.png"}}
	app := newUploadApp(svc)

	resp, err := app.Test(multipartPhotoRequest(t, "/api/v1/students/6/photo"), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, uint(6), svc.lastID)

	var payload struct {
		Data dto.UploadResponse `json:"data"`
	}
	decodeBody(t, resp, &payload)
	require.Equal(t, uint(6), payload.Data.StudentID)
	require.NotEmpty(t, payload.Data.PhotoURL)
}

func TestUploadHandlerMissingFile(t *testing.T) {
	app := newUploadApp(&stubUploadService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/students/6/photo", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUploadHandlerRejections(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{service.ErrPhotoTooLarge, fiber.StatusRequestEntityTooLarge},
		{service.ErrPhotoTypeNotAllowed, fiber.StatusBadRequest},
	}

	for _, tc := range cases {
		app := newUploadApp(&stubUploadService{err: tc.err})
		resp, err := app.Test(multipartPhotoRequest(t, "/api/v1/students/6/photo"), -1)
		require.NoError(t, err)
		require.Equal(t, tc.status, resp.StatusCode)
	}
}
