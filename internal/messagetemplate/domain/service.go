package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
)

type CreateRequest struct {
	Channel      string   `json:"channel"`
	Tone         string   `json:"tone"`
	MinDays      int      `json:"min_days"`
	Subject      string   `json:"subject"`
	Body         string   `json:"body"`
	Placeholders []string `json:"placeholders"`
}

type ListRequest struct {
	Channel string `form:"channel"`
	Tone    string `form:"tone"`
	Active  *bool  `form:"active"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*MessageTemplate, error)
	List(ctx context.Context, req ListRequest) ([]MessageTemplate, error)
	GetByID(ctx context.Context, id string) (*MessageTemplate, error)
	// Deactivate retires a template from selection. Bodies are immutable
	// once a template exists; catalog changes happen by creating a new
	// template and deactivating the old one.
	Deactivate(ctx context.Context, id string) (*MessageTemplate, error)
	// Catalog returns the active templates for a channel/tone pair.
	Catalog(ctx context.Context, channel Channel, tone Tone) ([]MessageTemplate, error)
}

func ParseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidChannel  = errors.New("invalid_channel")
	ErrInvalidTone     = errors.New("invalid_tone")
	ErrInvalidMinDays  = errors.New("invalid_min_days")
	ErrInvalidBody     = errors.New("invalid_body")
	ErrNotFound        = errors.New("template_not_found")
	ErrNoTemplateMatch = errors.New("no_template_match")
)
