package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	campaignservice "github.com/smallbiznis/kolekta/internal/campaign/service"
	"github.com/smallbiznis/kolekta/internal/clock"
	campaigndomain "github.com/smallbiznis/kolekta/internal/campaign/domain"
	communicationdomain "github.com/smallbiznis/kolekta/internal/communication/domain"
	communicationrepo "github.com/smallbiznis/kolekta/internal/communication/repository"
	"github.com/smallbiznis/kolekta/internal/config"
	customerdomain "github.com/smallbiznis/kolekta/internal/customer/domain"
	customerrepo "github.com/smallbiznis/kolekta/internal/customer/repository"
	customerservice "github.com/smallbiznis/kolekta/internal/customer/service"
	debtdomain "github.com/smallbiznis/kolekta/internal/debt/domain"
	debtrepo "github.com/smallbiznis/kolekta/internal/debt/repository"
	debtservice "github.com/smallbiznis/kolekta/internal/debt/service"
	dispatchservice "github.com/smallbiznis/kolekta/internal/dispatch/service"
	msgtemplatedomain "github.com/smallbiznis/kolekta/internal/messagetemplate/domain"
	msgtemplaterepo "github.com/smallbiznis/kolekta/internal/messagetemplate/repository"
	msgtemplateservice "github.com/smallbiznis/kolekta/internal/messagetemplate/service"
	"github.com/smallbiznis/kolekta/internal/scheduler"
	"github.com/smallbiznis/kolekta/internal/transport/adapters"
	transportdomain "github.com/smallbiznis/kolekta/internal/transport/domain"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubTransport struct {
	channel msgtemplatedomain.Channel
	err     error
}

func (s *stubTransport) Channel() msgtemplatedomain.Channel { return s.channel }

func (s *stubTransport) Send(ctx context.Context, msg transportdomain.Message) error {
	return s.err
}

type serverFixture struct {
	engine    *gin.Engine
	db        *gorm.DB
	transport *stubTransport
	now       time.Time
}

func setupServerFixture(t *testing.T) *serverFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&customerdomain.Customer{},
		&debtdomain.Debt{},
		&msgtemplatedomain.MessageTemplate{},
		&communicationdomain.Communication{},
		&campaigndomain.Campaign{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(5)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	now := time.Date(2026, time.August, 10, 9, 0, 0, 0, time.UTC)
	clk := clock.FixedClock{At: now}
	log := zap.NewNop()

	customerSvc := customerservice.NewService(customerservice.ServiceParam{
		DB: db, Log: log, GenID: node, Clock: clk,
		Repo: customerrepo.Provide(),
	})
	debtSvc := debtservice.NewService(debtservice.ServiceParam{
		DB: db, Log: log, GenID: node, Clock: clk,
		DebtRepo:     debtrepo.Provide(),
		CustomerRepo: customerrepo.Provide(),
	})
	templateSvc := msgtemplateservice.NewService(msgtemplateservice.ServiceParam{
		DB: db, Log: log, GenID: node, Clock: clk,
		Repo: msgtemplaterepo.Provide(),
	})
	campaignSvc := campaignservice.NewService(campaignservice.ServiceParam{
		DB: db, Log: log, GenID: node, Clock: clk,
	})

	transport := &stubTransport{channel: msgtemplatedomain.ChannelEmail}
	dispatchSvc := dispatchservice.NewService(dispatchservice.ServiceParam{
		DB: db, Log: log, GenID: node, Clock: clk,
		Config:       config.Config{DispatchTimeout: time.Second},
		CustomerRepo: customerrepo.Provide(),
		DebtRepo:     debtrepo.Provide(),
		CommRepo:     communicationrepo.Provide(),
		TemplateSvc:  templateSvc,
		CampaignSvc:  campaignSvc,
		Transports:   adapters.NewRegistry(transport),
	})

	worker, err := scheduler.NewWorker(scheduler.Params{
		DB: db, Log: log, Clock: clk,
		DebtRepo: debtrepo.Provide(),
	})
	if err != nil {
		t.Fatalf("new worker: %v", err)
	}

	server := NewServer(ServerParam{
		Config:      config.Config{HTTPAddr: ":0"},
		Log:         log,
		DB:          db,
		CustomerSvc: customerSvc,
		DebtSvc:     debtSvc,
		TemplateSvc: templateSvc,
		CampaignSvc: campaignSvc,
		DispatchSvc: dispatchSvc,
		CommRepo:    communicationrepo.Provide(),
		Worker:      worker,
	})

	engine := gin.New()
	server.RegisterRoutes(engine)

	return &serverFixture{engine: engine, db: db, transport: transport, now: now}
}

func (f *serverFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		payload = bytes.NewBuffer(encoded)
	} else {
		payload = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return envelope.Data
}

func errorKind(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Kind string `json:"kind"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error %q: %v", rec.Body.String(), err)
	}
	return envelope.Error.Kind
}

func (f *serverFixture) createCustomer(t *testing.T) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/customers", map[string]any{
		"name":  "Ana Perez",
		"email": "ana@example.com",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create customer: %d %s", rec.Code, rec.Body.String())
	}
	return decodeData(t, rec)["id"].(string)
}

func (f *serverFixture) createDebt(t *testing.T, customerID string, due time.Time) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/debts", map[string]any{
		"customer_id": customerID,
		"amount":      12345,
		"currency":    "USD",
		"due_date":    due.Format(time.RFC3339),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create debt: %d %s", rec.Code, rec.Body.String())
	}
	return decodeData(t, rec)["id"].(string)
}

func TestDebtLifecycleOverHTTP(t *testing.T) {
	f := setupServerFixture(t)
	customerID := f.createCustomer(t)
	debtID := f.createDebt(t, customerID, f.now.AddDate(0, 0, -45))

	rec := f.do(t, http.MethodGet, "/api/debts/"+debtID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get debt: %d", rec.Code)
	}
	if tier := decodeData(t, rec)["tier"]; tier != "mid" {
		t.Fatalf("tier = %v, want mid", tier)
	}

	rec = f.do(t, http.MethodPost, "/api/debts/"+debtID+"/pay", map[string]any{"payment_method": "card"})
	if rec.Code != http.StatusOK {
		t.Fatalf("pay debt: %d %s", rec.Code, rec.Body.String())
	}
	if tier := decodeData(t, rec)["tier"]; tier != "paid" {
		t.Fatalf("tier = %v, want paid", tier)
	}

	rec = f.do(t, http.MethodPost, "/api/debts/"+debtID+"/cancel", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("cancel paid debt: %d, want 409", rec.Code)
	}
	if kind := errorKind(t, rec); kind != "debt_already_terminal" {
		t.Fatalf("kind = %q", kind)
	}
}

func TestDebtErrorsOverHTTP(t *testing.T) {
	f := setupServerFixture(t)

	rec := f.do(t, http.MethodGet, "/api/debts/999999999", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown debt: %d, want 404", rec.Code)
	}

	rec = f.do(t, http.MethodPost, "/api/debts", map[string]any{
		"customer_id": "999999999",
		"amount":      100,
		"currency":    "USD",
		"due_date":    "2026-08-01",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown customer: %d, want 404", rec.Code)
	}

	rec = f.do(t, http.MethodPost, "/api/debts", map[string]any{
		"customer_id": "abc",
		"amount":      100,
		"currency":    "USD",
		"due_date":    "not-a-date",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad due date: %d, want 400", rec.Code)
	}
}

func TestSendCommunicationOverHTTP(t *testing.T) {
	f := setupServerFixture(t)
	customerID := f.createCustomer(t)
	debtID := f.createDebt(t, customerID, f.now.AddDate(0, 0, -45))

	rec := f.do(t, http.MethodPost, "/api/templates", map[string]any{
		"channel":      "email",
		"tone":         "formal",
		"min_days":     30,
		"subject":      "Overdue",
		"body":         "Dear {customer_name}, pay {amount}.",
		"placeholders": []string{"customer_name", "amount"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create template: %d %s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodPost, "/api/communications", map[string]any{
		"customer_id": customerID,
		"debt_id":     debtID,
		"channel":     "email",
		"tone":        "formal",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("send: %d %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	if data["status"] != "delivered" {
		t.Fatalf("status = %v, want delivered", data["status"])
	}
	if data["content"] != "Dear Ana Perez, pay 123.45 USD." {
		t.Fatalf("content = %v", data["content"])
	}

	// A provider outage surfaces as 502 but still returns the failed row.
	f.transport.err = errors.New("provider down")
	rec = f.do(t, http.MethodPost, "/api/communications", map[string]any{
		"customer_id": customerID,
		"debt_id":     debtID,
		"channel":     "email",
		"tone":        "formal",
	})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("failed send: %d, want 502", rec.Code)
	}
	if data := decodeData(t, rec); data["status"] != "failed" {
		t.Fatalf("status = %v, want failed", data["status"])
	}

	rec = f.do(t, http.MethodGet, "/api/communications?debt_id="+debtID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list communications: %d", rec.Code)
	}
}

func TestCampaignCompareOverHTTP(t *testing.T) {
	f := setupServerFixture(t)

	createCampaign := func(variant string) string {
		rec := f.do(t, http.MethodPost, "/api/campaigns", map[string]any{
			"variant":  variant,
			"tone":     "friendly",
			"channels": []string{"email"},
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("create campaign: %d %s", rec.Code, rec.Body.String())
		}
		return decodeData(t, rec)["id"].(string)
	}

	aID := createCampaign("A")
	bID := createCampaign("B")

	rec := f.do(t, http.MethodGet, fmt.Sprintf("/api/campaigns/%s/compare?with=%s", aID, bID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("compare: %d %s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodGet, "/api/campaigns/"+aID+"/compare", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("compare missing with: %d, want 400", rec.Code)
	}

	rec = f.do(t, http.MethodGet, fmt.Sprintf("/api/campaigns/%s/compare?with=123456789", aID), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("compare unknown: %d, want 404", rec.Code)
	}
}

func TestTemplateDeactivateOverHTTP(t *testing.T) {
	f := setupServerFixture(t)

	rec := f.do(t, http.MethodPost, "/api/templates", map[string]any{
		"channel": "sms",
		"tone":    "urgent",
		"body":    "Pay now.",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create template: %d %s", rec.Code, rec.Body.String())
	}
	templateID := decodeData(t, rec)["id"].(string)

	rec = f.do(t, http.MethodPost, "/api/templates/"+templateID+"/deactivate", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("deactivate: %d %s", rec.Code, rec.Body.String())
	}
	if active := decodeData(t, rec)["active"]; active != false {
		t.Fatalf("active = %v, want false", active)
	}

	rec = f.do(t, http.MethodGet, "/api/templates?channel=sms&active=true", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list templates: %d", rec.Code)
	}
}

func TestReclassifyJobOverHTTP(t *testing.T) {
	f := setupServerFixture(t)
	customerID := f.createCustomer(t)

	// Created current, but the fixture clock says 40 days overdue once the
	// stored day count is stale.
	debtID := f.createDebt(t, customerID, f.now.AddDate(0, 0, -40))
	if err := f.db.Exec("UPDATE debts SET tier = 'early', days_in_arrears = 5 WHERE id = ?", debtID).Error; err != nil {
		t.Fatalf("age debt: %v", err)
	}

	rec := f.do(t, http.MethodPost, "/api/jobs/reclassify", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reclassify: %d %s", rec.Code, rec.Body.String())
	}
	if got := decodeData(t, rec)["reclassified"]; got != float64(1) {
		t.Fatalf("reclassified = %v, want 1", got)
	}

	rec = f.do(t, http.MethodGet, "/api/debts/"+debtID, nil)
	data := decodeData(t, rec)
	if data["tier"] != "mid" {
		t.Fatalf("tier = %v, want mid", data["tier"])
	}
	if data["days_in_arrears"] != float64(40) {
		t.Fatalf("days = %v, want 40", data["days_in_arrears"])
	}
}

func TestHealthz(t *testing.T) {
	f := setupServerFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz: %d", rec.Code)
	}
}
