package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/m77ag/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]string
	types   map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = string(body)
		f.types[r.URL.Path] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestStorage(t *testing.T) (*S3ReceiptStorage, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string]string{}, types: map[string]string{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	s, err := NewS3ReceiptStorage(context.Background(), config.StorageConfig{
		Bucket:          "receipts",
		Region:          "us-east-1",
		Endpoint:        srv.URL,
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		UsePathStyle:    true,
		KeyPrefix:       "/farm/",
	}, WithPresignExpiration(5*time.Minute))
	require.NoError(t, err)
	return s, fake
}

func TestNewS3ReceiptStorage_RequiresBucket(t *testing.T) {
	_, err := NewS3ReceiptStorage(context.Background(), config.StorageConfig{})
	assert.ErrorContains(t, err, "bucket is required")
}

func TestS3ReceiptStorage_PutAndDelete(t *testing.T) {
	s, fake := newTestStorage(t)
	ctx := context.Background()

	key, err := s.Put(ctx, "crop-expenses/abc/receipt.pdf", []byte("%PDF-1.4"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "farm/crop-expenses/abc/receipt.pdf", key)
	assert.Equal(t, "%PDF-1.4", fake.objects["/receipts/farm/crop-expenses/abc/receipt.pdf"])
	assert.Equal(t, "application/pdf", fake.types["/receipts/farm/crop-expenses/abc/receipt.pdf"])

	require.NoError(t, s.Delete(ctx, key))
	assert.Empty(t, fake.objects)

	_, err = s.Put(ctx, "", nil, "")
	assert.Error(t, err)
}

func TestS3ReceiptStorage_DownloadURL(t *testing.T) {
	s, _ := newTestStorage(t)

	url, err := s.DownloadURL(context.Background(), "farm/crop-expenses/abc/receipt.pdf")
	require.NoError(t, err)
	assert.True(t, strings.Contains(url, "/receipts/farm/crop-expenses/abc/receipt.pdf"), url)
	assert.Contains(t, url, "X-Amz-Signature=")
	assert.Contains(t, url, "X-Amz-Expires=300")
	assert.Equal(t, "receipts", s.Bucket())
}
