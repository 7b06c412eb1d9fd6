package repository

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const ProofURLPrefix = "/uploads/"

// ProofRepository stores uploaded payment proofs on disk.
type ProofRepository interface {
	Save(ctx context.Context, originalName string, content io.Reader) (string, error)
	Remove(ctx context.Context, proofPath string) error
}

type proofRepoImpl struct {
	dir string
}

func NewProofRepository(dir string) (ProofRepository, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &proofRepoImpl{
		dir: dir,
	}, nil
}

// Save writes the upload under a generated name and returns the public
// reference path (/uploads/<file>).
func (r *proofRepoImpl) Save(ctx context.Context, originalName string, content io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)

	f, err := os.OpenFile(filepath.Join(r.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("create proof file: %w", err)
	}

	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write proof file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close proof file: %w", err)
	}

	return ProofURLPrefix + name, nil
}

func (r *proofRepoImpl) Remove(ctx context.Context, proofPath string) error {
	name := path.Base(strings.TrimPrefix(proofPath, ProofURLPrefix))
	if name == "." || name == "/" {
		return nil
	}
	if err := os.Remove(filepath.Join(r.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove proof file: %w", err)
	}
	return nil
}
