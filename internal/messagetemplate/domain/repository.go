package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, tmpl *MessageTemplate) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*MessageTemplate, error)
	List(ctx context.Context, db *gorm.DB, filter ListRequest) ([]MessageTemplate, error)
	ListActive(ctx context.Context, db *gorm.DB, channel Channel, tone Tone) ([]MessageTemplate, error)
	SetActive(ctx context.Context, db *gorm.DB, id snowflake.ID, active bool) (bool, error)
}
