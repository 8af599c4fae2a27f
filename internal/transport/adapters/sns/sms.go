package sns

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	awssns "github.com/aws/aws-sdk-go/service/sns"
	"github.com/aws/aws-sdk-go/service/sns/snsiface"
	msgtemplatedomain "github.com/smallbiznis/kolekta/internal/messagetemplate/domain"
	"github.com/smallbiznis/kolekta/internal/observability/tracing"
	"github.com/smallbiznis/kolekta/internal/transport/domain"
)

// Transport delivers SMS through AWS SNS direct publish.
type Transport struct {
	client   snsiface.SNSAPI
	senderID string
}

func New(region, senderID string) (*Transport, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:     aws.String(region),
		HTTPClient: tracing.WrapHTTPClient(nil),
	})
	if err != nil {
		return nil, err
	}
	return &Transport{
		client:   awssns.New(sess),
		senderID: senderID,
	}, nil
}

// NewWithClient wires an existing SNS client, used in tests.
func NewWithClient(client snsiface.SNSAPI, senderID string) *Transport {
	return &Transport{client: client, senderID: senderID}
}

func (t *Transport) Channel() msgtemplatedomain.Channel {
	return msgtemplatedomain.ChannelSMS
}

func (t *Transport) Send(ctx context.Context, msg domain.Message) error {
	to := strings.TrimSpace(msg.To)
	if to == "" {
		return domain.ErrMissingRecipient
	}

	input := &awssns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(msg.Body),
	}
	if t.senderID != "" {
		input.MessageAttributes = map[string]*awssns.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(t.senderID),
			},
		}
	}

	if _, err := t.client.PublishWithContext(ctx, input); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSendFailed, err)
	}
	return nil
}
