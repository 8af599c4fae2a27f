package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository is a minimal generic store for gorm-backed models keyed by
// snowflake IDs. Feature repositories wrap it for anything beyond simple
// equality lookups.
type Repository[T any] interface {
	Insert(ctx context.Context, record *T) error
	Update(ctx context.Context, record *T) error
	FindByID(ctx context.Context, id snowflake.ID) (*T, error)
	Find(ctx context.Context, conds map[string]any) ([]T, error)
}

type store[T any] struct {
	db *gorm.DB
}

// ProvideStore builds a Repository for the given model type.
func ProvideStore[T any](db *gorm.DB) Repository[T] {
	return &store[T]{db: db}
}

func (s *store[T]) Insert(ctx context.Context, record *T) error {
	return s.db.WithContext(ctx).Create(record).Error
}

func (s *store[T]) Update(ctx context.Context, record *T) error {
	return s.db.WithContext(ctx).Save(record).Error
}

func (s *store[T]) FindByID(ctx context.Context, id snowflake.ID) (*T, error) {
	var record T
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *store[T]) Find(ctx context.Context, conds map[string]any) ([]T, error) {
	var records []T
	query := s.db.WithContext(ctx)
	for column, value := range conds {
		query = query.Where(column+" = ?", value)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
