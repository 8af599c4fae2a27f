package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	templatedomain "github.com/smallbiznis/kolekta/internal/messagetemplate/domain"
	"gorm.io/gorm"
)

type starterTemplate struct {
	tone    templatedomain.Tone
	minDays int
	subject string
	body    string
}

// One template per tone, matched to the tier threshold it first applies at.
// Day 0 is a due-today courtesy note, day 1 opens early arrears, day 31
// escalates into mid arrears, and day 91 is the pre-legal notice.
var starterTemplates = []starterTemplate{
	{
		tone:    templatedomain.ToneFriendly,
		minDays: 0,
		subject: "A friendly reminder about your balance",
		body:    "Hi {customer_name}, your balance of {amount} is due today ({due_date}). If you have already paid, please disregard this message.",
	},
	{
		tone:    templatedomain.ToneFormal,
		minDays: 1,
		subject: "Payment overdue: {amount}",
		body:    "Dear {customer_name}, our records show a balance of {amount} that was due on {due_date} and is now {days_in_arrears} days overdue. Please arrange payment at your earliest convenience.",
	},
	{
		tone:    templatedomain.ToneUrgent,
		minDays: 31,
		subject: "Urgent: balance {days_in_arrears} days past due",
		body:    "Dear {customer_name}, your balance of {amount} is now {days_in_arrears} days past due. Please settle the amount or contact us immediately to discuss a payment plan.",
	},
	{
		tone:    templatedomain.ToneLegal,
		minDays: 91,
		subject: "Final notice before escalation",
		body:    "Dear {customer_name}, despite previous reminders your balance of {amount} remains unpaid {days_in_arrears} days after the due date of {due_date}. Unless payment is received, the account will be referred for further collection action.",
	},
}

var starterPlaceholders = []string{"customer_name", "amount", "due_date", "days_in_arrears"}

// EnsureDefaultTemplates seeds a starter message catalog on first boot so
// dispatch works before any operator has authored templates. Existing rows
// for a channel and tone are left untouched.
func EnsureDefaultTemplates(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	placeholders, err := json.Marshal(starterPlaceholders)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, channel := range []templatedomain.Channel{
			templatedomain.ChannelEmail,
			templatedomain.ChannelSMS,
			templatedomain.ChannelChat,
		} {
			for _, tpl := range starterTemplates {
				var count int64
				err := tx.WithContext(ctx).
					Model(&templatedomain.MessageTemplate{}).
					Where("channel = ? AND tone = ?", channel, tpl.tone).
					Count(&count).Error
				if err != nil {
					return err
				}
				if count > 0 {
					continue
				}

				now := time.Now().UTC()
				record := templatedomain.MessageTemplate{
					ID:           node.Generate(),
					Channel:      channel,
					Tone:         tpl.tone,
					MinDays:      tpl.minDays,
					Subject:      tpl.subject,
					Body:         tpl.body,
					Placeholders: placeholders,
					Active:       true,
					CreatedAt:    now,
					UpdatedAt:    now,
				}
				if err := tx.WithContext(ctx).Create(&record).Error; err != nil {
					return fmt.Errorf("seed template %s/%s: %w", channel, tpl.tone, err)
				}
			}
		}
		return nil
	})
}
