package printing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReceiptStorage persists rendered receipts
type ReceiptStorage interface {
	// Store saves a receipt PDF and reports where it went
	Store(ctx context.Context, req *StoreRequest) (*StoreResult, error)
}

// StoreRequest contains the parameters for storing a receipt
type StoreRequest struct {
	// SaleID is the folio of the receipt
	SaleID int64
	// PDFData is the raw PDF content
	PDFData []byte
	// RenderedAt places the object in its year/month directory
	RenderedAt time.Time
}

// StoreResult contains the result of storing a receipt
type StoreResult struct {
	// Key is the storage-relative object key
	Key string
	// Path is the local file path, empty for remote storage
	Path string
	// URL is an address the receipt can be fetched from, when there is one
	URL string
	// Size is the file size in bytes
	Size int64
}

// ObjectKey builds {year}/{month}/sale-{folio}-{uuid}.pdf. Each render gets
// its own key so earlier receipts are never overwritten.
func ObjectKey(req *StoreRequest) string {
	at := req.RenderedAt
	if at.IsZero() {
		at = time.Now()
	}
	return fmt.Sprintf("%04d/%02d/sale-%06d-%s.pdf", at.Year(), at.Month(), req.SaleID, uuid.NewString())
}

func validateStoreRequest(ctx context.Context, req *StoreRequest) error {
	if err := ctx.Err(); err != nil {
		return NewRenderError(ErrCodeStorageFailed, "operation cancelled", err)
	}
	if req == nil {
		return NewRenderError(ErrCodeStorageFailed, "store request is nil", nil)
	}
	if req.SaleID <= 0 {
		return NewRenderError(ErrCodeStorageFailed, "sale id is required", nil)
	}
	if len(req.PDFData) == 0 {
		return NewRenderError(ErrCodeStorageFailed, "PDF data is empty", nil)
	}
	return nil
}

// FileSystemStorageConfig contains configuration for file system storage
type FileSystemStorageConfig struct {
	// BasePath is the root directory for receipts
	BasePath string
	// Logger for operations
	Logger *zap.Logger
}

// FileSystemStorage stores receipts on the local file system
type FileSystemStorage struct {
	basePath string
	logger   *zap.Logger
}

// NewFileSystemStorage creates the base directory when missing
func NewFileSystemStorage(config *FileSystemStorageConfig) (*FileSystemStorage, error) {
	if config == nil {
		config = &FileSystemStorageConfig{}
	}
	basePath := config.BasePath
	if basePath == "" {
		basePath = "receipts"
	}
	absBase, err := filepath.Abs(basePath)
	if err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to resolve storage directory", err)
	}
	if err := os.MkdirAll(absBase, 0o755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed,
			fmt.Sprintf("failed to create storage directory: %s", absBase), err)
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSystemStorage{basePath: absBase, logger: logger}, nil
}

// Store writes the PDF under the base path
func (s *FileSystemStorage) Store(ctx context.Context, req *StoreRequest) (*StoreResult, error) {
	if err := validateStoreRequest(ctx, req); err != nil {
		return nil, err
	}

	key := ObjectKey(req)
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to create directory", err)
	}

	// Write to a temp file first so a reader never sees a partial receipt.
	tmp := fullPath + ".tmp"
	if err := os.WriteFile(tmp, req.PDFData, 0o644); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to write PDF file", err)
	}
	if err := os.Rename(tmp, fullPath); err != nil {
		_ = os.Remove(tmp)
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to move PDF into place", err)
	}

	s.logger.Info("Receipt stored",
		zap.Int64("sale_id", req.SaleID),
		zap.String("path", fullPath),
		zap.Int("size", len(req.PDFData)))

	return &StoreResult{
		Key:  key,
		Path: fullPath,
		URL:  "file://" + filepath.ToSlash(fullPath),
		Size: int64(len(req.PDFData)),
	}, nil
}

// BasePath returns the absolute storage root
func (s *FileSystemStorage) BasePath() string {
	return s.basePath
}

// Ensure FileSystemStorage implements ReceiptStorage
var _ ReceiptStorage = (*FileSystemStorage)(nil)
