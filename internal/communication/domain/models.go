package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	msgtemplatedomain "github.com/smallbiznis/kolekta/internal/messagetemplate/domain"
	"gorm.io/gorm"
)

// Status is the delivery state of a communication.
type Status string

const (
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusRead      Status = "read"
	StatusResponded Status = "responded"
	StatusFailed    Status = "failed"
)

// Communication records one dispatch attempt against a debt. A row is
// written exactly once per attempt; only the status moves afterwards.
type Communication struct {
	ID         snowflake.ID               `gorm:"primaryKey" json:"id"`
	CustomerID snowflake.ID               `gorm:"not null;index" json:"customer_id"`
	DebtID     snowflake.ID               `gorm:"not null;index" json:"debt_id"`
	TemplateID snowflake.ID               `gorm:"not null" json:"template_id"`
	Channel    msgtemplatedomain.Channel  `gorm:"type:text;not null" json:"channel"`
	Tone       msgtemplatedomain.Tone     `gorm:"type:text;not null" json:"tone"`
	Subject    string                     `gorm:"type:text" json:"subject,omitempty"`
	Content    string                     `gorm:"type:text;not null" json:"content"`
	Status     Status                     `gorm:"type:text;not null;default:'sent'" json:"status"`
	CampaignID *snowflake.ID              `gorm:"index" json:"campaign_id,omitempty"`
	FailReason *string                    `gorm:"type:text" json:"fail_reason,omitempty"`
	ReplyText  *string                    `gorm:"type:text" json:"reply_text,omitempty"`
	RepliedAt  *time.Time                 `gorm:"" json:"replied_at,omitempty"`
	SentAt     time.Time                  `gorm:"not null" json:"sent_at"`
	CreatedAt  time.Time                  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time                  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Communication) TableName() string { return "communications" }

type ListRequest struct {
	DebtID     string `form:"debt_id"`
	CustomerID string `form:"customer_id"`
	Status     string `form:"status"`
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, comm *Communication) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Communication, error)
	List(ctx context.Context, db *gorm.DB, filter ListRequest) ([]Communication, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status Status, failReason *string, now time.Time) error
}

func ParseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}

var (
	ErrInvalidID = errors.New("invalid_communication_id")
	ErrNotFound  = errors.New("communication_not_found")
)
