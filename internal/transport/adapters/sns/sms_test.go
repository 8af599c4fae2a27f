package sns

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	awssns "github.com/aws/aws-sdk-go/service/sns"
	"github.com/aws/aws-sdk-go/service/sns/snsiface"
	"github.com/smallbiznis/kolekta/internal/transport/domain"
)

type fakeSNS struct {
	snsiface.SNSAPI
	input *awssns.PublishInput
	err   error
}

func (f *fakeSNS) PublishWithContext(_ aws.Context, input *awssns.PublishInput, _ ...request.Option) (*awssns.PublishOutput, error) {
	f.input = input
	if f.err != nil {
		return nil, f.err
	}
	return &awssns.PublishOutput{}, nil
}

func TestSendPublishesToPhoneNumber(t *testing.T) {
	client := &fakeSNS{}
	transport := NewWithClient(client, "KOLEKTA")

	err := transport.Send(context.Background(), domain.Message{
		To:   "+15550001111",
		Body: "Please pay.",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if got := aws.StringValue(client.input.PhoneNumber); got != "+15550001111" {
		t.Fatalf("phone = %q", got)
	}
	attr, ok := client.input.MessageAttributes["AWS.SNS.SMS.SenderID"]
	if !ok {
		t.Fatal("sender id attribute missing")
	}
	if got := aws.StringValue(attr.StringValue); got != "KOLEKTA" {
		t.Fatalf("sender id = %q", got)
	}
}

func TestSendWithoutSenderID(t *testing.T) {
	client := &fakeSNS{}
	transport := NewWithClient(client, "")

	if err := transport.Send(context.Background(), domain.Message{To: "+15550001111", Body: "x"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if client.input.MessageAttributes != nil {
		t.Fatal("expected no message attributes")
	}
}

func TestSendMissingPhone(t *testing.T) {
	transport := NewWithClient(&fakeSNS{}, "")

	err := transport.Send(context.Background(), domain.Message{To: ""})
	if !errors.Is(err, domain.ErrMissingRecipient) {
		t.Fatalf("err = %v, want ErrMissingRecipient", err)
	}
}

func TestSendWrapsProviderError(t *testing.T) {
	transport := NewWithClient(&fakeSNS{err: errors.New("rate exceeded")}, "")

	err := transport.Send(context.Background(), domain.Message{To: "+15550001111"})
	if !errors.Is(err, domain.ErrSendFailed) {
		t.Fatalf("err = %v, want ErrSendFailed", err)
	}
}
