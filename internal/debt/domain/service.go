package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

type CreateRequest struct {
	CustomerID string    `json:"customer_id"`
	Amount     int64     `json:"amount"`
	Currency   string    `json:"currency"`
	DueDate    time.Time `json:"due_date"`
}

type ListRequest struct {
	CustomerID string `form:"customer_id"`
	Tier       string `form:"tier"`
}

type MarkPaidRequest struct {
	ID            string `json:"id"`
	PaymentMethod string `json:"payment_method"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Debt, error)
	GetByID(ctx context.Context, id string) (*Debt, error)
	List(ctx context.Context, req ListRequest) ([]Debt, error)
	MarkPaid(ctx context.Context, req MarkPaidRequest) (*Debt, error)
	Cancel(ctx context.Context, id string) (*Debt, error)
}

func ParseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidCustomer = errors.New("invalid_customer")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrInvalidCurrency = errors.New("invalid_currency")
	ErrInvalidDueDate  = errors.New("invalid_due_date")
	ErrInvalidTier     = errors.New("invalid_tier")
	ErrNotFound        = errors.New("debt_not_found")
	ErrAlreadyTerminal = errors.New("debt_already_terminal")
)
