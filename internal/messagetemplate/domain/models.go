package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Channel is an outbound delivery channel.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelChat  Channel = "chat"
)

// Valid reports whether the channel is a known delivery channel.
func (c Channel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelChat:
		return true
	default:
		return false
	}
}

// Tone is the register a message is written in. Escalating tiers generally
// move from friendly toward legal.
type Tone string

const (
	ToneFriendly Tone = "friendly"
	ToneFormal   Tone = "formal"
	ToneUrgent   Tone = "urgent"
	ToneLegal    Tone = "legal"
)

// Valid reports whether the tone is one of the known registers.
func (t Tone) Valid() bool {
	switch t {
	case ToneFriendly, ToneFormal, ToneUrgent, ToneLegal:
		return true
	default:
		return false
	}
}

// MessageTemplate is a reusable message skeleton with placeholders, scoped
// by channel, tone, and the arrears day threshold it applies from.
type MessageTemplate struct {
	ID           snowflake.ID   `gorm:"primaryKey" json:"id"`
	Channel      Channel        `gorm:"type:text;not null;index:idx_templates_channel_tone" json:"channel"`
	Tone         Tone           `gorm:"type:text;not null;index:idx_templates_channel_tone" json:"tone"`
	MinDays      int            `gorm:"not null;default:0" json:"min_days"`
	Subject      string         `gorm:"type:text" json:"subject"`
	Body         string         `gorm:"type:text;not null" json:"body"`
	Placeholders datatypes.JSON `gorm:"type:jsonb" json:"placeholders"`
	Active       bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (MessageTemplate) TableName() string { return "message_templates" }
