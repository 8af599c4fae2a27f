package amqpchat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rabbitmq/amqp091-go"
	msgtemplatedomain "github.com/smallbiznis/kolekta/internal/messagetemplate/domain"
	"github.com/smallbiznis/kolekta/internal/transport/domain"
)

const routingKey = "chat.message"

// Transport publishes chat messages to a topic exchange; a downstream
// gateway owns the actual chat provider integration.
type Transport struct {
	channel  publisher
	exchange string
}

// publisher is the subset of *amqp091.Channel the transport needs.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

type chatPayload struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

func New(amqpURL, exchange string) (*Transport, func() error, error) {
	conn, err := amqp091.Dial(strings.TrimSpace(amqpURL))
	if err != nil {
		return nil, nil, err
	}
	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, nil, err
	}

	closer := func() error {
		_ = channel.Close()
		return conn.Close()
	}
	return &Transport{channel: channel, exchange: exchange}, closer, nil
}

// NewWithPublisher wires an existing publisher, used in tests.
func NewWithPublisher(p publisher, exchange string) *Transport {
	return &Transport{channel: p, exchange: exchange}
}

func (t *Transport) Channel() msgtemplatedomain.Channel {
	return msgtemplatedomain.ChannelChat
}

func (t *Transport) Send(ctx context.Context, msg domain.Message) error {
	to := strings.TrimSpace(msg.To)
	if to == "" {
		return domain.ErrMissingRecipient
	}

	body, err := json.Marshal(chatPayload{To: to, Body: msg.Body})
	if err != nil {
		return err
	}

	err = t.channel.PublishWithContext(ctx, t.exchange, routingKey, false, false, amqp091.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSendFailed, err)
	}
	return nil
}
