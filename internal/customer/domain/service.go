package domain

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
)

type CreateRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	ChatHandle string `json:"chat_handle"`
	Currency   string `json:"currency"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Customer, error)
	GetByID(ctx context.Context, id string) (*Customer, error)
}

func ParseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}
