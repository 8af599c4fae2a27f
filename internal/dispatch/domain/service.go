package domain

import (
	"context"
	"errors"

	communicationdomain "github.com/smallbiznis/kolekta/internal/communication/domain"
)

type Request struct {
	CustomerID string `json:"customer_id"`
	DebtID     string `json:"debt_id"`
	Channel    string `json:"channel"`
	Tone       string `json:"tone"`
	CampaignID string `json:"campaign_id"`
}

// Service coordinates template selection, rendering, transport, and
// campaign metric rollup for one outbound message.
type Service interface {
	// Dispatch records exactly one Communication per call. On transport
	// failure the returned Communication is finalized as failed and the
	// error wraps ErrTransportFailure; the failure is reported, never
	// fatal.
	Dispatch(ctx context.Context, req Request) (*communicationdomain.Communication, error)
}

var (
	ErrInvalidRequest    = errors.New("invalid_dispatch_request")
	ErrNoRecipient       = errors.New("no_recipient_for_channel")
	ErrTransportFailure  = errors.New("transport_failure")
)
