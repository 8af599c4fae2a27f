package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Customer is the debtor a collections workflow runs against. Each channel
// has its own address field; a blank address means the channel is not
// reachable for this customer.
type Customer struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	Name       string       `gorm:"type:text;not null" json:"name"`
	Email      string       `gorm:"type:text" json:"email"`
	Phone      string       `gorm:"type:text" json:"phone"`
	ChatHandle string       `gorm:"type:text" json:"chat_handle"`
	Currency   string       `gorm:"type:text;not null;default:'USD'" json:"currency"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Customer) TableName() string { return "customers" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Customer, error)
}

var (
	ErrInvalidID    = errors.New("invalid_customer_id")
	ErrInvalidName  = errors.New("invalid_customer_name")
	ErrInvalidEmail = errors.New("invalid_customer_email")
	ErrNotFound     = errors.New("customer_not_found")
)
