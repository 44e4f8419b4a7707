package ingest_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/momentumlabs/docflow/core/storage"
)

var errStorageUnavailable = errors.New("ingest_test: storage backend unavailable")

// memoryStorage is a storage.Storage fake that keeps uploaded bytes in
// memory, for tests that only care about the path/error contract.
type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	failSave bool
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string][]byte)}
}

func (s *memoryStorage) Save(_ context.Context, fh *multipart.FileHeader, path string) (*storage.File, error) {
	if s.failSave {
		return nil, errStorageUnavailable
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(f); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.objects[path] = buf.Bytes()
	s.mu.Unlock()

	return &storage.File{Filename: fh.Filename, Size: fh.Size, RelativePath: path}, nil
}

func (s *memoryStorage) Delete(context.Context, string) error          { return nil }
func (s *memoryStorage) DeleteDir(context.Context, string) error       { return nil }
func (s *memoryStorage) Exists(context.Context, string) bool           { return false }
func (s *memoryStorage) List(context.Context, string) ([]storage.Entry, error) {
	return nil, nil
}
func (s *memoryStorage) URL(path string) string { return "memory://" + path }

// newUploadFileHeader builds a *multipart.FileHeader carrying content, as if
// parsed off an inbound HTTP request's multipart form.
func newUploadFileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="file"; filename="` + filename + `"`},
		"Content-Type":        {contentType},
	})
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/documents/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(10<<20))

	files := req.MultipartForm.File["file"]
	require.Len(t, files, 1)
	return files[0]
}
