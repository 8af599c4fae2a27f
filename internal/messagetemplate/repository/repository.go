package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kolekta/internal/messagetemplate/domain"
	"gorm.io/gorm"
)

type repo struct{}

// Provide constructs the message template repository.
func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, tmpl *domain.MessageTemplate) error {
	return db.WithContext(ctx).Create(tmpl).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.MessageTemplate, error) {
	var tmpl domain.MessageTemplate
	err := db.WithContext(ctx).Where("id = ?", id).Take(&tmpl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tmpl, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListRequest) ([]domain.MessageTemplate, error) {
	query := db.WithContext(ctx).Model(&domain.MessageTemplate{})
	if channel := strings.TrimSpace(filter.Channel); channel != "" {
		query = query.Where("channel = ?", channel)
	}
	if tone := strings.TrimSpace(filter.Tone); tone != "" {
		query = query.Where("tone = ?", tone)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}

	var templates []domain.MessageTemplate
	if err := query.Order("id ASC").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *repo) ListActive(ctx context.Context, db *gorm.DB, channel domain.Channel, tone domain.Tone) ([]domain.MessageTemplate, error) {
	var templates []domain.MessageTemplate
	err := db.WithContext(ctx).
		Where("active = ? AND channel = ? AND tone = ?", true, channel, tone).
		Order("id ASC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *repo) SetActive(ctx context.Context, db *gorm.DB, id snowflake.ID, active bool) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE message_templates SET active = ?, updated_at = ? WHERE id = ?`,
		active,
		time.Now().UTC(),
		id,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
