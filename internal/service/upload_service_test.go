package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sanad-app/sanad-go-api/internal/models"
)

type storageStub struct {
	uploaded bytes.Buffer
	names    []string
}

func (s *storageStub) Upload(ctx context.Context, name string, reader io.Reader) (string, error) {
	s.uploaded.Reset()
	if _, err := s.uploaded.ReadFrom(reader); err != nil {
		return "", err
	}
	s.names = append(s.names, name)
	return "https://cdn.example.com/" + name, nil
}

func uploadFixtures() (*studentRepoStub, *storageStub) {
	students := &studentRepoStub{students: []models.Student{
		{ID: 1, Name: "Omar", Status: models.StudentStatusActive},
	}, nextID: 1}
	return students, &storageStub{}
}

func TestUploadPhotoRejectsSize(t *testing.T) {
	students, storage := uploadFixtures()
	svc := NewUploadService(storage, students, 1, testLogger())

	file := buildFileHeader(t, "photo.jpg", bytes.Repeat([]byte("a"), 2*1024*1024))

	_, err := svc.UploadPhoto(context.Background(), 1, file)
	require.ErrorIs(t, err, ErrPhotoTooLarge)
}

func TestUploadPhotoRejectsNonImage(t *testing.T) {
	students, storage := uploadFixtures()
	svc := NewUploadService(storage, students, 5, testLogger())

	file := buildFileHeader(t, "notes.txt", []byte("plain text"))
	_, err := svc.UploadPhoto(context.Background(), 1, file)
	require.ErrorIs(t, err, ErrPhotoTypeNotAllowed)

	pdf := buildFileHeader(t, "doc.pdf", []byte("%PDF-1.4 fake document"))
	_, err = svc.UploadPhoto(context.Background(), 1, pdf)
	require.ErrorIs(t, err, ErrPhotoTypeNotAllowed)
}

func TestUploadPhotoUnknownStudent(t *testing.T) {
	students, storage := uploadFixtures()
	svc := NewUploadService(storage, students, 5, testLogger())

	pngHeader := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	file := buildFileHeader(t, "photo.png", pngHeader)

	_, err := svc.UploadPhoto(context.Background(), 99, file)
	require.Error(t, err)
	require.Empty(t, storage.names)
}

func TestUploadPhotoSuccess(t *testing.T) {
	students, storage := uploadFixtures()
	svc := NewUploadService(storage, students, 5, testLogger())

	pngHeader := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	file := buildFileHeader(t, "My Photo.PNG", pngHeader)

	resp, err := svc.UploadPhoto(context.Background(), 1, file)
	require.NoError(t, err)
	require.Equal(t, uint(1), resp.StudentID)
	require.Equal(t, "https://cdn.example.com/student-1.png", resp.PhotoURL)

	student, err := students.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, resp.PhotoURL, student.PhotoURL)
}

func buildFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {"form-data; name=\"file\"; filename=\"" + filename + "\""},
		"Content-Type":        {"application/octet-stream"},
	})
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(int64(len(content) + 1024))
	require.NoError(t, err)
	files := form.File["file"]
	require.Len(t, files, 1)
	return files[0]
}
