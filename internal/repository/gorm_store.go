package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"digital-key-store/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormStoreImpl struct {
	db *gorm.DB
}

// NewGormStore keeps both documents as rows of the documents table.
// The table must already be migrated.
func NewGormStore(db *gorm.DB) DocumentStore {
	return &gormStoreImpl{
		db: db,
	}
}

func (s *gormStoreImpl) LoadInventory(ctx context.Context) (model.Inventory, error) {
	inventory := model.Inventory{}
	if err := s.load(ctx, model.DocumentInventory, &inventory); err != nil {
		return nil, err
	}
	return inventory, nil
}

func (s *gormStoreImpl) SaveInventory(ctx context.Context, inventory model.Inventory) error {
	return s.save(ctx, model.DocumentInventory, inventory)
}

func (s *gormStoreImpl) LoadOrders(ctx context.Context) (*model.OrderBook, error) {
	book := &model.OrderBook{}
	if err := s.load(ctx, model.DocumentOrders, book); err != nil {
		return nil, err
	}
	book.Normalize()
	return book, nil
}

func (s *gormStoreImpl) SaveOrders(ctx context.Context, book *model.OrderBook) error {
	return s.save(ctx, model.DocumentOrders, book)
}

func (s *gormStoreImpl) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *gormStoreImpl) load(ctx context.Context, name string, v any) error {
	var doc model.Document
	err := s.db.WithContext(ctx).
		Where("name = ?", name).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoDocument
		}
		return fmt.Errorf("load %s document: %w", name, err)
	}

	if err := json.Unmarshal([]byte(doc.Body), v); err != nil {
		return fmt.Errorf("decode %s document: %w", name, err)
	}
	return nil
}

func (s *gormStoreImpl) save(ctx context.Context, name string, v any) error {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s document: %w", name, err)
	}

	doc := &model.Document{
		Name: name,
		Body: string(body),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"body":       doc.Body,
			"updated_at": time.Now(),
		}),
	}).Create(doc).Error
}
