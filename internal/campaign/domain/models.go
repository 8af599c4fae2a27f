package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Metric counter columns. Counters only ever go up; rates are always
// derived from them on read and never stored.
const (
	FieldSent      = "sent_count"
	FieldDelivered = "delivered_count"
	FieldRead      = "read_count"
	FieldResponded = "responded_count"
	FieldPaid      = "paid_count"
)

// ValidField reports whether the name is a known counter column.
func ValidField(field string) bool {
	switch field {
	case FieldSent, FieldDelivered, FieldRead, FieldResponded, FieldPaid:
		return true
	default:
		return false
	}
}

// Campaign is an A/B-tested configuration bundle whose dispatches roll up
// into shared counters.
type Campaign struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	Variant    string            `gorm:"type:text;not null" json:"variant"`
	Tone       string            `gorm:"type:text;not null" json:"tone"`
	Channels   datatypes.JSON    `gorm:"type:jsonb" json:"channels"`
	CadenceDays int              `gorm:"not null;default:7" json:"cadence_days"`
	Config     datatypes.JSONMap `gorm:"type:jsonb" json:"config"`

	SentCount      int64 `gorm:"not null;default:0" json:"sent_count"`
	DeliveredCount int64 `gorm:"not null;default:0" json:"delivered_count"`
	ReadCount      int64 `gorm:"not null;default:0" json:"read_count"`
	RespondedCount int64 `gorm:"not null;default:0" json:"responded_count"`
	PaidCount      int64 `gorm:"not null;default:0" json:"paid_count"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Campaign) TableName() string { return "campaigns" }

// Rates are the derived metrics for one campaign, in percent with two
// decimal places.
type Rates struct {
	CampaignID     string  `json:"campaign_id"`
	Variant        string  `json:"variant"`
	Sent           int64   `json:"sent"`
	OpenRate       float64 `json:"open_rate"`
	ResponseRate   float64 `json:"response_rate"`
	ConversionRate float64 `json:"conversion_rate"`
}

// Comparison pairs the derived rates of two campaigns.
type Comparison struct {
	A Rates `json:"a"`
	B Rates `json:"b"`
}
