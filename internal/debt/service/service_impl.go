package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/smallbiznis/kolekta/internal/customer/domain"
	"github.com/smallbiznis/kolekta/internal/clock"
	"github.com/smallbiznis/kolekta/internal/debt/domain"
	"github.com/smallbiznis/kolekta/internal/events"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID        *snowflake.Node
	clk          clock.Clock
	debtRepo     domain.Repository
	customerRepo customerdomain.Repository
	outbox       *events.Outbox
}

type ServiceParam struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	DebtRepo     domain.Repository
	CustomerRepo customerdomain.Repository
	Outbox       *events.Outbox
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("debt.service"),

		genID:        p.GenID,
		clk:          p.Clock,
		debtRepo:     p.DebtRepo,
		customerRepo: p.CustomerRepo,
		outbox:       p.Outbox,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Debt, error) {
	customerID, err := domain.ParseID(req.CustomerID)
	if err != nil {
		return nil, domain.ErrInvalidCustomer
	}
	if req.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if len(currency) != 3 {
		return nil, domain.ErrInvalidCurrency
	}
	if req.DueDate.IsZero() {
		return nil, domain.ErrInvalidDueDate
	}

	customer, err := s.customerRepo.FindByID(ctx, s.db, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, customerdomain.ErrNotFound
	}

	now := s.clk.Now()
	days, tier := domain.Classify(req.DueDate, now, domain.TierCurrent)

	debt := &domain.Debt{
		ID:                s.genID.Generate(),
		CustomerID:        customerID,
		OriginalAmount:    req.Amount,
		OutstandingAmount: req.Amount,
		Currency:          currency,
		DueDate:           req.DueDate.UTC(),
		DaysInArrears:     days,
		Tier:              tier,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.debtRepo.Insert(ctx, s.db, debt); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventDebtCreated, debt.ID, map[string]any{
		"debt_id":     debt.ID.String(),
		"customer_id": debt.CustomerID.String(),
		"tier":        string(debt.Tier),
	})
	return debt, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Debt, error) {
	debtID, err := domain.ParseID(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	debt, err := s.debtRepo.FindByID(ctx, s.db, debtID)
	if err != nil {
		return nil, err
	}
	if debt == nil {
		return nil, domain.ErrNotFound
	}
	return debt, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Debt, error) {
	return s.debtRepo.List(ctx, s.db, req)
}

func (s *Service) MarkPaid(ctx context.Context, req domain.MarkPaidRequest) (*domain.Debt, error) {
	debtID, err := domain.ParseID(req.ID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	method := strings.TrimSpace(req.PaymentMethod)
	var methodValue *string
	if method != "" {
		methodValue = &method
	}

	now := s.clk.Now()
	updated, err := s.debtRepo.MarkTerminal(ctx, s.db, debtID, domain.TierPaid, &now, methodValue, now)
	if err != nil {
		return nil, err
	}
	if !updated {
		return s.terminalConflict(ctx, debtID)
	}

	s.publish(ctx, events.EventDebtPaid, debtID, map[string]any{
		"debt_id": debtID.String(),
	})
	return s.debtRepo.FindByID(ctx, s.db, debtID)
}

func (s *Service) Cancel(ctx context.Context, id string) (*domain.Debt, error) {
	debtID, err := domain.ParseID(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	now := s.clk.Now()
	updated, err := s.debtRepo.MarkTerminal(ctx, s.db, debtID, domain.TierCancelled, nil, nil, now)
	if err != nil {
		return nil, err
	}
	if !updated {
		return s.terminalConflict(ctx, debtID)
	}

	s.publish(ctx, events.EventDebtCancelled, debtID, map[string]any{
		"debt_id": debtID.String(),
	})
	return s.debtRepo.FindByID(ctx, s.db, debtID)
}

// terminalConflict distinguishes a missing debt from one that already
// reached a terminal tier.
func (s *Service) terminalConflict(ctx context.Context, id snowflake.ID) (*domain.Debt, error) {
	debt, err := s.debtRepo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if debt == nil {
		return nil, domain.ErrNotFound
	}
	return nil, domain.ErrAlreadyTerminal
}

func (s *Service) publish(ctx context.Context, eventType string, dedupeID snowflake.ID, payload map[string]any) {
	if s.outbox == nil {
		return
	}
	if err := s.outbox.Publish(ctx, events.Event{
		Type:      eventType,
		Payload:   payload,
		DedupeKey: eventType + ":" + dedupeID.String(),
	}); err != nil {
		s.log.Warn("outbox publish failed", zap.String("event", eventType), zap.Error(err))
	}
}
