package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Tier is the arrears classification bucket of a debt.
type Tier string

const (
	TierCurrent   Tier = "current"
	TierEarly     Tier = "early"
	TierMid       Tier = "mid"
	TierAdvanced  Tier = "advanced"
	TierPaid      Tier = "paid"
	TierCancelled Tier = "cancelled"
)

// Terminal reports whether the tier is a terminal state. Terminal tiers are
// sticky: the classifier never overwrites them.
func (t Tier) Terminal() bool {
	return t == TierPaid || t == TierCancelled
}

// Valid reports whether the tier is one of the known buckets.
func (t Tier) Valid() bool {
	switch t {
	case TierCurrent, TierEarly, TierMid, TierAdvanced, TierPaid, TierCancelled:
		return true
	default:
		return false
	}
}

// Debt tracks one outstanding invoice against a customer.
type Debt struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	CustomerID     snowflake.ID `gorm:"not null;index" json:"customer_id"`
	OriginalAmount int64        `gorm:"not null" json:"original_amount"`
	OutstandingAmount int64     `gorm:"not null" json:"outstanding_amount"`
	Currency       string       `gorm:"type:text;not null" json:"currency"`
	DueDate        time.Time    `gorm:"not null;index" json:"due_date"`
	DaysInArrears  int          `gorm:"not null;default:0" json:"days_in_arrears"`
	Tier           Tier         `gorm:"type:text;not null;default:'current';index" json:"tier"`
	PaidAt         *time.Time   `gorm:"" json:"paid_at,omitempty"`
	PaymentMethod  *string      `gorm:"type:text" json:"payment_method,omitempty"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Debt) TableName() string { return "debts" }
