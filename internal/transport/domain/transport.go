package domain

import (
	"context"
	"errors"

	msgtemplatedomain "github.com/smallbiznis/kolekta/internal/messagetemplate/domain"
)

// Message is the channel-agnostic payload a transport delivers. To holds
// the channel-specific address: an email address, a phone number, or a
// chat handle.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Transport delivers a rendered message over one channel. Implementations
// must honor context cancellation; the orchestrator bounds every send with
// a timeout.
type Transport interface {
	Channel() msgtemplatedomain.Channel
	Send(ctx context.Context, msg Message) error
}

var (
	ErrUnsupportedChannel = errors.New("unsupported_channel")
	ErrMissingRecipient   = errors.New("missing_recipient")
	ErrSendFailed         = errors.New("send_failed")
)
