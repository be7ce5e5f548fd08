package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// MaxReceiptSize caps receipt uploads at 5 MB.
const MaxReceiptSize = 5 << 20

// ReceiptStore persists uploaded receipt images on disk and hands back the
// public URL path they are served under.
type ReceiptStore struct {
	dir string
}

func NewReceiptStore(dir string) (*ReceiptStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &ReceiptStore{dir: dir}, nil
}

// Save writes the uploaded file under a random name, keeping the original
// extension, and returns the URL path for the stored receipt.
func (s *ReceiptStore) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > MaxReceiptSize {
		return "", fmt.Errorf("%w: receipt exceeds %d bytes", errValidation, MaxReceiptSize)
	}
	name := uuid.NewString() + filepath.Ext(header.Filename)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to store receipt: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, io.LimitReader(file, MaxReceiptSize)); err != nil {
		return "", fmt.Errorf("failed to store receipt: %w", err)
	}
	return "/uploads/" + name, nil
}
