package ses

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	awsses "github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"
	msgtemplatedomain "github.com/smallbiznis/kolekta/internal/messagetemplate/domain"
	"github.com/smallbiznis/kolekta/internal/observability/tracing"
	"github.com/smallbiznis/kolekta/internal/transport/domain"
)

// Transport delivers email through AWS SES.
type Transport struct {
	client sesiface.SESAPI
	from   string
}

func New(region, from string) (*Transport, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:     aws.String(region),
		HTTPClient: tracing.WrapHTTPClient(nil),
	})
	if err != nil {
		return nil, err
	}
	return &Transport{
		client: awsses.New(sess),
		from:   from,
	}, nil
}

// NewWithClient wires an existing SES client, used in tests.
func NewWithClient(client sesiface.SESAPI, from string) *Transport {
	return &Transport{client: client, from: from}
}

func (t *Transport) Channel() msgtemplatedomain.Channel {
	return msgtemplatedomain.ChannelEmail
}

func (t *Transport) Send(ctx context.Context, msg domain.Message) error {
	to := strings.TrimSpace(msg.To)
	if to == "" {
		return domain.ErrMissingRecipient
	}

	_, err := t.client.SendEmailWithContext(ctx, &awsses.SendEmailInput{
		Source: aws.String(t.from),
		Destination: &awsses.Destination{
			ToAddresses: []*string{aws.String(to)},
		},
		Message: &awsses.Message{
			Subject: &awsses.Content{Data: aws.String(msg.Subject)},
			Body: &awsses.Body{
				Text: &awsses.Content{Data: aws.String(msg.Body)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSendFailed, err)
	}
	return nil
}
