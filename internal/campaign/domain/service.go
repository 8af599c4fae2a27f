package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
)

type CreateRequest struct {
	Variant     string         `json:"variant"`
	Tone        string         `json:"tone"`
	Channels    []string       `json:"channels"`
	CadenceDays int            `json:"cadence_days"`
	Config      map[string]any `json:"config"`
}

// Service owns the campaign metrics block: it is the only writer of the
// counter columns.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Campaign, error)
	GetByID(ctx context.Context, id string) (*Campaign, error)
	// Increment atomically adds delta to one counter.
	Increment(ctx context.Context, id snowflake.ID, field string, delta int64) error
	// IncrementDispatch records one dispatch outcome in a single atomic
	// statement: sent always moves, delivered only on transport success.
	IncrementDispatch(ctx context.Context, id snowflake.ID, delivered bool) error
	Compare(ctx context.Context, aID, bID string) (*Comparison, error)
}

func ParseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}

var (
	ErrInvalidID      = errors.New("invalid_campaign_id")
	ErrInvalidVariant = errors.New("invalid_variant")
	ErrInvalidTone    = errors.New("invalid_tone")
	ErrInvalidField   = errors.New("invalid_metric_field")
	ErrInvalidDelta   = errors.New("invalid_metric_delta")
	ErrNotFound       = errors.New("campaign_not_found")
)
