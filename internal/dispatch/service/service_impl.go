package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	campaigndomain "github.com/smallbiznis/kolekta/internal/campaign/domain"
	"github.com/smallbiznis/kolekta/internal/clock"
	communicationdomain "github.com/smallbiznis/kolekta/internal/communication/domain"
	customerdomain "github.com/smallbiznis/kolekta/internal/customer/domain"
	debtdomain "github.com/smallbiznis/kolekta/internal/debt/domain"
	"github.com/smallbiznis/kolekta/internal/config"
	"github.com/smallbiznis/kolekta/internal/dispatch/domain"
	"github.com/smallbiznis/kolekta/internal/events"
	"github.com/smallbiznis/kolekta/internal/message/render"
	msgtemplatedomain "github.com/smallbiznis/kolekta/internal/messagetemplate/domain"
	"github.com/smallbiznis/kolekta/internal/observability/metrics"
	"github.com/smallbiznis/kolekta/internal/transport/adapters"
	transportdomain "github.com/smallbiznis/kolekta/internal/transport/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger
	cfg config.Config

	genID        *snowflake.Node
	clk          clock.Clock
	customerRepo customerdomain.Repository
	debtRepo     debtdomain.Repository
	commRepo     communicationdomain.Repository
	templateSvc  msgtemplatedomain.Service
	campaignSvc  campaigndomain.Service
	transports   *adapters.Registry
	outbox       *events.Outbox
}

type ServiceParam struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Config       config.Config
	GenID        *snowflake.Node
	Clock        clock.Clock
	CustomerRepo customerdomain.Repository
	DebtRepo     debtdomain.Repository
	CommRepo     communicationdomain.Repository
	TemplateSvc  msgtemplatedomain.Service
	CampaignSvc  campaigndomain.Service
	Transports   *adapters.Registry
	Outbox       *events.Outbox
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("dispatch.service"),
		cfg: p.Config,

		genID:        p.GenID,
		clk:          p.Clock,
		customerRepo: p.CustomerRepo,
		debtRepo:     p.DebtRepo,
		commRepo:     p.CommRepo,
		templateSvc:  p.TemplateSvc,
		campaignSvc:  p.CampaignSvc,
		transports:   p.Transports,
		outbox:       p.Outbox,
	}
}

func (s *Service) Dispatch(ctx context.Context, req domain.Request) (*communicationdomain.Communication, error) {
	channel := msgtemplatedomain.Channel(strings.ToLower(strings.TrimSpace(req.Channel)))
	if !channel.Valid() {
		return nil, msgtemplatedomain.ErrInvalidChannel
	}
	tone := msgtemplatedomain.Tone(strings.ToLower(strings.TrimSpace(req.Tone)))
	if !tone.Valid() {
		return nil, msgtemplatedomain.ErrInvalidTone
	}

	customerID, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
	if err != nil {
		return nil, customerdomain.ErrInvalidID
	}
	debtID, err := debtdomain.ParseID(req.DebtID)
	if err != nil {
		return nil, debtdomain.ErrInvalidID
	}

	var campaignID *snowflake.ID
	if raw := strings.TrimSpace(req.CampaignID); raw != "" {
		id, err := campaigndomain.ParseID(raw)
		if err != nil {
			return nil, campaigndomain.ErrInvalidID
		}
		campaignID = &id
	}

	customer, err := s.customerRepo.FindByID(ctx, s.db, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, customerdomain.ErrNotFound
	}

	debt, err := s.debtRepo.FindByID(ctx, s.db, debtID)
	if err != nil {
		return nil, err
	}
	if debt == nil {
		return nil, debtdomain.ErrNotFound
	}

	recipient := recipientFor(channel, customer)
	if recipient == "" {
		return nil, domain.ErrNoRecipient
	}

	catalog, err := s.templateSvc.Catalog(ctx, channel, tone)
	if err != nil {
		return nil, err
	}
	tmpl, err := msgtemplatedomain.Select(channel, tone, debt.DaysInArrears, catalog)
	if err != nil {
		return nil, err
	}

	bindings := bindingsFor(customer, debt)
	content := render.Render(tmpl.Body, declaredPlaceholders(tmpl), bindings)
	subject := render.Render(tmpl.Subject, declaredPlaceholders(tmpl), bindings)

	// The attempt is recorded before the provider call so a crash mid-send
	// still leaves an auditable row.
	now := s.clk.Now()
	comm := &communicationdomain.Communication{
		ID:         s.genID.Generate(),
		CustomerID: customer.ID,
		DebtID:     debt.ID,
		TemplateID: tmpl.ID,
		Channel:    channel,
		Tone:       tone,
		Subject:    subject,
		Content:    content,
		Status:     communicationdomain.StatusSent,
		CampaignID: campaignID,
		SentAt:     now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.commRepo.Insert(ctx, s.db, comm); err != nil {
		return nil, err
	}

	sendErr := s.send(ctx, channel, transportdomain.Message{
		To:      recipient,
		Subject: subject,
		Body:    content,
	})

	delivered := sendErr == nil
	status := communicationdomain.StatusDelivered
	var failReason *string
	if !delivered {
		status = communicationdomain.StatusFailed
		reason := sendErr.Error()
		failReason = &reason
	}

	if err := s.commRepo.UpdateStatus(ctx, s.db, comm.ID, status, failReason, s.clk.Now()); err != nil {
		return nil, err
	}
	comm.Status = status
	comm.FailReason = failReason

	if campaignID != nil {
		if err := s.campaignSvc.IncrementDispatch(ctx, *campaignID, delivered); err != nil {
			s.log.Warn("campaign metrics increment failed",
				zap.String("campaign_id", campaignID.String()),
				zap.Error(err),
			)
		}
	}

	metrics.Dispatch().Observe(string(channel), string(status))
	s.publishOutcome(ctx, comm)

	if sendErr != nil {
		s.log.Warn("transport send failed",
			zap.String("communication_id", comm.ID.String()),
			zap.String("channel", string(channel)),
			zap.Error(sendErr),
		)
		return comm, fmt.Errorf("%w: %v", domain.ErrTransportFailure, sendErr)
	}
	return comm, nil
}

// send invokes the channel transport under the configured timeout. A
// timeout is indistinguishable from any other provider failure.
func (s *Service) send(ctx context.Context, channel msgtemplatedomain.Channel, msg transportdomain.Message) error {
	transport, err := s.transports.Get(channel)
	if err != nil {
		return err
	}

	timeout := s.cfg.DispatchTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	sendCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return transport.Send(sendCtx, msg)
}

func (s *Service) publishOutcome(ctx context.Context, comm *communicationdomain.Communication) {
	if s.outbox == nil {
		return
	}
	payload := events.CommunicationDispatchedPayload{
		CommunicationID: comm.ID.String(),
		DebtID:          comm.DebtID.String(),
		Channel:         string(comm.Channel),
		Status:          string(comm.Status),
	}
	if comm.CampaignID != nil {
		payload.CampaignID = comm.CampaignID.String()
	}
	if err := s.outbox.Publish(ctx, events.Event{
		Type:      events.EventCommunicationDispatched,
		Payload:   payload.ToMap(),
		DedupeKey: events.EventCommunicationDispatched + ":" + comm.ID.String(),
	}); err != nil {
		s.log.Warn("outbox publish failed", zap.Error(err))
	}
}

func recipientFor(channel msgtemplatedomain.Channel, customer *customerdomain.Customer) string {
	switch channel {
	case msgtemplatedomain.ChannelEmail:
		return strings.TrimSpace(customer.Email)
	case msgtemplatedomain.ChannelSMS:
		return strings.TrimSpace(customer.Phone)
	case msgtemplatedomain.ChannelChat:
		return strings.TrimSpace(customer.ChatHandle)
	default:
		return ""
	}
}

func bindingsFor(customer *customerdomain.Customer, debt *debtdomain.Debt) map[string]string {
	return map[string]string{
		"customer_name":   customer.Name,
		"amount":          formatAmount(debt.OutstandingAmount, debt.Currency),
		"currency":        debt.Currency,
		"days_in_arrears": strconv.Itoa(debt.DaysInArrears),
		"due_date":        debt.DueDate.Format("Jan 2, 2006"),
	}
}

// formatAmount renders minor units as a decimal amount with currency code.
func formatAmount(cents int64, currency string) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, cents/100, cents%100, currency)
}

func declaredPlaceholders(tmpl *msgtemplatedomain.MessageTemplate) []string {
	if len(tmpl.Placeholders) == 0 {
		return nil
	}
	var names []string
	if err := json.Unmarshal(tmpl.Placeholders, &names); err != nil {
		return nil
	}
	return names
}
