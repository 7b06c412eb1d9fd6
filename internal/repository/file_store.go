package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"digital-key-store/internal/model"
)

type fileStoreImpl struct {
	keysPath   string
	ordersPath string
}

// NewFileStore keeps each document in its own JSON file.
func NewFileStore(keysPath, ordersPath string) (DocumentStore, error) {
	for _, p := range []string{keysPath, ordersPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	return &fileStoreImpl{
		keysPath:   keysPath,
		ordersPath: ordersPath,
	}, nil
}

func (s *fileStoreImpl) LoadInventory(ctx context.Context) (model.Inventory, error) {
	inventory := model.Inventory{}
	if err := readJSON(s.keysPath, &inventory); err != nil {
		return nil, err
	}
	return inventory, nil
}

func (s *fileStoreImpl) SaveInventory(ctx context.Context, inventory model.Inventory) error {
	return writeJSON(s.keysPath, inventory)
}

func (s *fileStoreImpl) LoadOrders(ctx context.Context) (*model.OrderBook, error) {
	book := &model.OrderBook{}
	if err := readJSON(s.ordersPath, book); err != nil {
		return nil, err
	}
	book.Normalize()
	return book, nil
}

func (s *fileStoreImpl) SaveOrders(ctx context.Context, book *model.OrderBook) error {
	return writeJSON(s.ordersPath, book)
}

func (s *fileStoreImpl) Close() error {
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNoDocument
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// writeJSON replaces the file through a temp file and rename so a crash
// never leaves a half-written document behind.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
