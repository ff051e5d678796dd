// Package store is the generic document store the reminder engine talks to.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// Store is entity CRUD with field-equality filtering. There are no
// transactions; the last write to reach the database wins.
type Store interface {
	Create(ctx context.Context, record interface{}) error
	Update(ctx context.Context, model interface{}, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, model interface{}, id uuid.UUID) error
	Filter(ctx context.Context, dest interface{}, where map[string]interface{}, orderBy string) error
	Get(ctx context.Context, dest interface{}, id uuid.UUID) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, record interface{}) error {
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("create: %w", err)
	}
	return nil
}

// Update merges fields into the row with the given id.
func (s *GormStore) Update(ctx context.Context, model interface{}, id uuid.UUID, fields map[string]interface{}) error {
	result := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("update %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	return nil
}

// Delete is a hard delete.
func (s *GormStore) Delete(ctx context.Context, model interface{}, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if result.Error != nil {
		return fmt.Errorf("delete %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	return nil
}

// Filter loads every row matching the column equality map. A nil value
// matches NULL.
func (s *GormStore) Filter(ctx context.Context, dest interface{}, where map[string]interface{}, orderBy string) error {
	q := s.db.WithContext(ctx)
	if len(where) > 0 {
		q = q.Where(where)
	}
	if orderBy != "" {
		q = q.Order(orderBy)
	}
	if err := q.Find(dest).Error; err != nil {
		return fmt.Errorf("filter: %w", err)
	}
	return nil
}

func (s *GormStore) Get(ctx context.Context, dest interface{}, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Where("id = ?", id).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", id, err)
	}
	return nil
}
