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

	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/pos/backend/internal/infrastructure/printing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewS3ReceiptStorage_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.StorageConfig
		wantErr string
	}{
		{"nil config", nil, "configuration is required"},
		{"missing bucket", &config.StorageConfig{AccessKeyID: "k", SecretAccessKey: "s"}, "bucket is required"},
		{"missing access key", &config.StorageConfig{Bucket: "b", SecretAccessKey: "s"}, "access key is required"},
		{"missing secret key", &config.StorageConfig{Bucket: "b", AccessKeyID: "k"}, "secret key is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewS3ReceiptStorage(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewS3ReceiptStorage_Defaults(t *testing.T) {
	s, err := NewS3ReceiptStorage(&config.StorageConfig{
		Bucket:          "receipts",
		AccessKeyID:     "k",
		SecretAccessKey: "s",
		Endpoint:        "localhost:9000",
		Prefix:          "/pos/",
	}, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	assert.Equal(t, "receipts", s.Bucket())
	assert.Equal(t, 15*time.Minute, s.presignExpiration)
	assert.Equal(t, "pos/2024/01/a.pdf", s.objectKey("2024/01/a.pdf"))

	s, err = NewS3ReceiptStorage(&config.StorageConfig{Bucket: "b", AccessKeyID: "k", SecretAccessKey: "s"},
		WithPresignExpiration(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, time.Minute, s.presignExpiration)
	assert.Equal(t, "2024/01/a.pdf", s.objectKey("2024/01/a.pdf"))
}

// fakeS3 accepts path-style PutObject and HeadBucket requests
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = body
		f.types[r.URL.Path] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodHead:
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newFakeS3Storage(t *testing.T) (*S3ReceiptStorage, *fakeS3) {
	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	s, err := NewS3ReceiptStorage(&config.StorageConfig{
		Endpoint:        srv.URL,
		Bucket:          "receipts",
		AccessKeyID:     "test",
		SecretAccessKey: "secret",
		UsePathStyle:    true,
		Prefix:          "pos",
	})
	require.NoError(t, err)
	return s, fake
}

func TestS3ReceiptStorage_Store(t *testing.T) {
	s, fake := newFakeS3Storage(t)

	res, err := s.Store(context.Background(), &printing.StoreRequest{
		SaleID:     9,
		PDFData:    []byte("%PDF-1.4"),
		RenderedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.Key, "pos/2024/02/sale-000009-"))
	assert.Empty(t, res.Path)
	assert.Equal(t, int64(8), res.Size)
	assert.Contains(t, res.URL, "/receipts/"+res.Key)
	assert.Contains(t, res.URL, "X-Amz-Signature=")

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, []byte("%PDF-1.4"), fake.objects["/receipts/"+res.Key])
	assert.Equal(t, "application/pdf", fake.types["/receipts/"+res.Key])
}

func TestS3ReceiptStorage_StoreValidation(t *testing.T) {
	s, _ := newFakeS3Storage(t)

	_, err := s.Store(context.Background(), &printing.StoreRequest{SaleID: 1})
	assert.Equal(t, printing.ErrCodeStorageFailed, printing.RenderErrorCode(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Store(ctx, &printing.StoreRequest{SaleID: 1, PDFData: []byte("x")})
	assert.Equal(t, printing.ErrCodeStorageFailed, printing.RenderErrorCode(err))
}

func TestS3ReceiptStorage_EnsureBucketExists(t *testing.T) {
	s, _ := newFakeS3Storage(t)
	assert.NoError(t, s.EnsureBucket(context.Background()))
}
