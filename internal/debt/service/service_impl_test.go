package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kolekta/internal/clock"
	customerdomain "github.com/smallbiznis/kolekta/internal/customer/domain"
	customerrepo "github.com/smallbiznis/kolekta/internal/customer/repository"
	"github.com/smallbiznis/kolekta/internal/debt/domain"
	debtrepo "github.com/smallbiznis/kolekta/internal/debt/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, time.July, 15, 9, 0, 0, 0, time.UTC)

func setupDebtService(t *testing.T) (*Service, *customerdomain.Customer) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&customerdomain.Customer{}, &domain.Debt{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(4)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	svc := &Service{
		db:           db,
		log:          zap.NewNop(),
		genID:        node,
		clk:          clock.FixedClock{At: testNow},
		debtRepo:     debtrepo.Provide(),
		customerRepo: customerrepo.Provide(),
	}

	customer := &customerdomain.Customer{
		ID:       node.Generate(),
		Name:     "Ana Perez",
		Email:    "ana@example.com",
		Currency: "USD",
	}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("create customer: %v", err)
	}
	return svc, customer
}

func TestCreateClassifiesAtCreation(t *testing.T) {
	svc, customer := setupDebtService(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		due      time.Time
		wantDays int
		wantTier domain.Tier
	}{
		{"due in the future", testNow.AddDate(0, 0, 10), 0, domain.TierCurrent},
		{"due today", testNow, 0, domain.TierCurrent},
		{"already mid", testNow.AddDate(0, 0, -45), 45, domain.TierMid},
		{"already advanced", testNow.AddDate(0, 0, -120), 120, domain.TierAdvanced},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			debt, err := svc.Create(ctx, domain.CreateRequest{
				CustomerID: customer.ID.String(),
				Amount:     5000,
				Currency:   "usd",
				DueDate:    tc.due,
			})
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if debt.DaysInArrears != tc.wantDays {
				t.Fatalf("days = %d, want %d", debt.DaysInArrears, tc.wantDays)
			}
			if debt.Tier != tc.wantTier {
				t.Fatalf("tier = %s, want %s", debt.Tier, tc.wantTier)
			}
			if debt.Currency != "USD" {
				t.Fatalf("currency = %q, want USD", debt.Currency)
			}
			if debt.OutstandingAmount != 5000 {
				t.Fatalf("outstanding = %d, want 5000", debt.OutstandingAmount)
			}
		})
	}
}

func TestCreateValidation(t *testing.T) {
	svc, customer := setupDebtService(t)
	ctx := context.Background()
	due := testNow.AddDate(0, 0, 7)

	cases := []struct {
		name string
		req  domain.CreateRequest
		want error
	}{
		{"bad customer id", domain.CreateRequest{CustomerID: "abc", Amount: 100, Currency: "USD", DueDate: due}, domain.ErrInvalidCustomer},
		{"zero amount", domain.CreateRequest{CustomerID: customer.ID.String(), Amount: 0, Currency: "USD", DueDate: due}, domain.ErrInvalidAmount},
		{"negative amount", domain.CreateRequest{CustomerID: customer.ID.String(), Amount: -5, Currency: "USD", DueDate: due}, domain.ErrInvalidAmount},
		{"bad currency", domain.CreateRequest{CustomerID: customer.ID.String(), Amount: 100, Currency: "DOLLARS", DueDate: due}, domain.ErrInvalidCurrency},
		{"zero due date", domain.CreateRequest{CustomerID: customer.ID.String(), Amount: 100, Currency: "USD"}, domain.ErrInvalidDueDate},
		{"unknown customer", domain.CreateRequest{CustomerID: "987654321", Amount: 100, Currency: "USD", DueDate: due}, customerdomain.ErrNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestMarkPaidIsTerminalOnce(t *testing.T) {
	svc, customer := setupDebtService(t)
	ctx := context.Background()

	debt, err := svc.Create(ctx, domain.CreateRequest{
		CustomerID: customer.ID.String(),
		Amount:     1000,
		Currency:   "USD",
		DueDate:    testNow.AddDate(0, 0, -5),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	paid, err := svc.MarkPaid(ctx, domain.MarkPaidRequest{ID: debt.ID.String(), PaymentMethod: "bank_transfer"})
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if paid.Tier != domain.TierPaid {
		t.Fatalf("tier = %s, want paid", paid.Tier)
	}
	if paid.PaidAt == nil || !paid.PaidAt.Equal(testNow) {
		t.Fatalf("paid_at = %v, want %v", paid.PaidAt, testNow)
	}
	if paid.PaymentMethod == nil || *paid.PaymentMethod != "bank_transfer" {
		t.Fatalf("payment_method = %v", paid.PaymentMethod)
	}

	if _, err := svc.MarkPaid(ctx, domain.MarkPaidRequest{ID: debt.ID.String()}); !errors.Is(err, domain.ErrAlreadyTerminal) {
		t.Fatalf("second pay err = %v, want ErrAlreadyTerminal", err)
	}
	if _, err := svc.Cancel(ctx, debt.ID.String()); !errors.Is(err, domain.ErrAlreadyTerminal) {
		t.Fatalf("cancel after pay err = %v, want ErrAlreadyTerminal", err)
	}
}

func TestCancelIsTerminalOnce(t *testing.T) {
	svc, customer := setupDebtService(t)
	ctx := context.Background()

	debt, err := svc.Create(ctx, domain.CreateRequest{
		CustomerID: customer.ID.String(),
		Amount:     1000,
		Currency:   "USD",
		DueDate:    testNow.AddDate(0, 0, -5),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	cancelled, err := svc.Cancel(ctx, debt.ID.String())
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Tier != domain.TierCancelled {
		t.Fatalf("tier = %s, want cancelled", cancelled.Tier)
	}
	if cancelled.PaidAt != nil {
		t.Fatalf("paid_at = %v, want nil", cancelled.PaidAt)
	}

	if _, err := svc.MarkPaid(ctx, domain.MarkPaidRequest{ID: debt.ID.String()}); !errors.Is(err, domain.ErrAlreadyTerminal) {
		t.Fatalf("pay after cancel err = %v, want ErrAlreadyTerminal", err)
	}
}

func TestMarkPaidUnknownDebt(t *testing.T) {
	svc, _ := setupDebtService(t)

	_, err := svc.MarkPaid(context.Background(), domain.MarkPaidRequest{ID: "123456789"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListFiltersByTier(t *testing.T) {
	svc, customer := setupDebtService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, domain.CreateRequest{
		CustomerID: customer.ID.String(),
		Amount:     100,
		Currency:   "USD",
		DueDate:    testNow.AddDate(0, 0, -45),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, domain.CreateRequest{
		CustomerID: customer.ID.String(),
		Amount:     100,
		Currency:   "USD",
		DueDate:    testNow.AddDate(0, 0, 30),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	mid, err := svc.List(ctx, domain.ListRequest{Tier: string(domain.TierMid)})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mid) != 1 {
		t.Fatalf("mid debts = %d, want 1", len(mid))
	}

	if _, err := svc.List(ctx, domain.ListRequest{Tier: "overdue"}); !errors.Is(err, domain.ErrInvalidTier) {
		t.Fatalf("err = %v, want ErrInvalidTier", err)
	}
}
