// Package storage provides object storage for archived receipts.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	infraconfig "github.com/Honest-88/pos-sample/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrObjectNotFound is returned when a key has no stored object
var ErrObjectNotFound = errors.New("object not found")

// FileStorage stores opaque blobs under slash-separated keys
type FileStorage interface {
	// Put writes data under key, replacing any existing object
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Get reads the object stored under key
	Get(ctx context.Context, key string) ([]byte, error)
	// Exists reports whether an object is stored under key
	Exists(ctx context.Context, key string) (bool, error)
	// Delete removes the object under key; missing keys are not an error
	Delete(ctx context.Context, key string) error
}

// ReceiptKey returns the archive key of a sale's PDF receipt:
// receipts/YYYY/MM/<sale-id>.pdf
func ReceiptKey(saleID uuid.UUID, saleDate time.Time) string {
	return fmt.Sprintf("receipts/%04d/%02d/%s.pdf", saleDate.Year(), int(saleDate.Month()), saleID)
}

// New creates the FileStorage selected by cfg.Driver
func New(ctx context.Context, cfg infraconfig.StorageConfig, logger *zap.Logger) (FileStorage, error) {
	switch cfg.Driver {
	case infraconfig.StorageS3:
		s3Storage, err := NewS3Storage(&cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s3Storage, nil
	case infraconfig.StorageLocal, "":
		return NewLocalStorage(cfg.LocalPath)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}
