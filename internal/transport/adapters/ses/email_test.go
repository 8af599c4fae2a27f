package ses

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	awsses "github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"
	"github.com/smallbiznis/kolekta/internal/transport/domain"
)

type fakeSES struct {
	sesiface.SESAPI
	input *awsses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmailWithContext(_ aws.Context, input *awsses.SendEmailInput, _ ...request.Option) (*awsses.SendEmailOutput, error) {
	f.input = input
	if f.err != nil {
		return nil, f.err
	}
	return &awsses.SendEmailOutput{}, nil
}

func TestSendBuildsSESInput(t *testing.T) {
	client := &fakeSES{}
	transport := NewWithClient(client, "collections@example.com")

	err := transport.Send(context.Background(), domain.Message{
		To:      "ana@example.com",
		Subject: "Overdue",
		Body:    "Please pay.",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if got := aws.StringValue(client.input.Source); got != "collections@example.com" {
		t.Fatalf("source = %q", got)
	}
	if got := aws.StringValue(client.input.Destination.ToAddresses[0]); got != "ana@example.com" {
		t.Fatalf("to = %q", got)
	}
	if got := aws.StringValue(client.input.Message.Subject.Data); got != "Overdue" {
		t.Fatalf("subject = %q", got)
	}
}

func TestSendMissingRecipient(t *testing.T) {
	transport := NewWithClient(&fakeSES{}, "collections@example.com")

	err := transport.Send(context.Background(), domain.Message{To: "  "})
	if !errors.Is(err, domain.ErrMissingRecipient) {
		t.Fatalf("err = %v, want ErrMissingRecipient", err)
	}
}

func TestSendWrapsProviderError(t *testing.T) {
	transport := NewWithClient(&fakeSES{err: errors.New("throttled")}, "collections@example.com")

	err := transport.Send(context.Background(), domain.Message{To: "ana@example.com"})
	if !errors.Is(err, domain.ErrSendFailed) {
		t.Fatalf("err = %v, want ErrSendFailed", err)
	}
}
