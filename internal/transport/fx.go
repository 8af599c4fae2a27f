package transport

import (
	"context"
	"strings"

	"github.com/smallbiznis/kolekta/internal/config"
	"github.com/smallbiznis/kolekta/internal/transport/adapters"
	"github.com/smallbiznis/kolekta/internal/transport/adapters/amqpchat"
	"github.com/smallbiznis/kolekta/internal/transport/adapters/ses"
	"github.com/smallbiznis/kolekta/internal/transport/adapters/sns"
	"github.com/smallbiznis/kolekta/internal/transport/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("transport",
	fx.Provide(NewRegistry),
)

// NewRegistry wires one transport per configured channel. A channel with
// missing configuration is simply not registered; dispatching to it fails
// with unsupported_channel rather than at startup.
func NewRegistry(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*adapters.Registry, error) {
	log = log.Named("transport")
	var transports []domain.Transport

	if strings.TrimSpace(cfg.EmailFrom) != "" {
		email, err := ses.New(cfg.AWSRegion, cfg.EmailFrom)
		if err != nil {
			return nil, err
		}
		transports = append(transports, email)
	} else {
		log.Warn("email transport disabled: EMAIL_FROM not set")
	}

	if strings.TrimSpace(cfg.AWSRegion) != "" {
		sms, err := sns.New(cfg.AWSRegion, cfg.SMSSenderID)
		if err != nil {
			return nil, err
		}
		transports = append(transports, sms)
	} else {
		log.Warn("sms transport disabled: AWS_REGION not set")
	}

	if strings.TrimSpace(cfg.ChatAMQPURL) != "" {
		chat, closer, err := amqpchat.New(cfg.ChatAMQPURL, cfg.ChatExchange)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return closer()
			},
		})
		transports = append(transports, chat)
	} else {
		log.Warn("chat transport disabled: CHAT_AMQP_URL not set")
	}

	return adapters.NewRegistry(transports...), nil
}
