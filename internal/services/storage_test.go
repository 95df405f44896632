package services

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartFile(t *testing.T, field, filename, content string) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File[field][0]
}

func TestSaveFile_AllowedExtensions(t *testing.T) {
	s := NewStorageService(t.TempDir())
	require.NoError(t, s.EnsureUploadDir())

	tests := []struct {
		filename string
		fileType string
		wantErr  bool
	}{
		{"resume.pdf", "resume", false},
		{"resume.docx", "resume", false},
		{"resume.txt", "resume", true},
		{"jd.txt", "job_description", false},
		{"jd.pdf", "job_description", false},
		{"jd.png", "job_description", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			file := multipartFile(t, "file", tt.filename, "content")

			_, filePath, err := s.SaveFile(file, tt.fileType)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			data, err := os.ReadFile(filePath)
			require.NoError(t, err)
			assert.Equal(t, "content", string(data))
		})
	}
}

func TestSaveFile_UniqueFilenames(t *testing.T) {
	dir := t.TempDir()
	s := NewStorageService(dir)
	require.NoError(t, s.EnsureUploadDir())

	first := multipartFile(t, "file", "resume.pdf", "one")
	second := multipartFile(t, "file", "resume.pdf", "two")

	nameA, _, err := s.SaveFile(first, "resume")
	require.NoError(t, err)
	nameB, _, err := s.SaveFile(second, "resume")
	require.NoError(t, err)

	assert.NotEqual(t, nameA, nameB)
	assert.Equal(t, ".pdf", filepath.Ext(nameA))
}

func TestDeleteFile(t *testing.T) {
	dir := t.TempDir()
	s := NewStorageService(dir)
	require.NoError(t, s.EnsureUploadDir())

	file := multipartFile(t, "file", "resume.pdf", "bye")
	name, filePath, err := s.SaveFile(file, "resume")
	require.NoError(t, err)

	require.NoError(t, s.DeleteFile(name))
	_, err = os.Stat(filePath)
	assert.True(t, os.IsNotExist(err))
}
