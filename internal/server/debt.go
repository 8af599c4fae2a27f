package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/kolekta/internal/audit/domain"
	debtdomain "github.com/smallbiznis/kolekta/internal/debt/domain"
)

type createDebtRequest struct {
	CustomerID string `json:"customer_id"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
	DueDate    string `json:"due_date"`
}

type payDebtRequest struct {
	PaymentMethod string `json:"payment_method"`
}

// @Summary      Create Debt
// @Description  Register an outstanding debt against a customer
// @Tags         debts
// @Accept       json
// @Produce      json
// @Param        request body createDebtRequest true "Create Debt Request"
// @Success      200  {object}  debtdomain.Debt
// @Router       /debts [post]
func (s *Server) CreateDebt(c *gin.Context) {
	var req createDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	dueDate, err := time.Parse(time.RFC3339, strings.TrimSpace(req.DueDate))
	if err != nil {
		if day, dayErr := time.Parse("2006-01-02", strings.TrimSpace(req.DueDate)); dayErr == nil {
			dueDate = day
		} else {
			AbortWithError(c, newValidationError("due_date", "invalid_due_date", "invalid due date"))
			return
		}
	}

	resp, err := s.debtSvc.Create(c.Request.Context(), debtdomain.CreateRequest{
		CustomerID: strings.TrimSpace(req.CustomerID),
		Amount:     req.Amount,
		Currency:   strings.TrimSpace(req.Currency),
		DueDate:    dueDate.UTC(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID.String()
		_ = s.auditSvc.AuditLog(c.Request.Context(), auditdomain.ActorTypeUser, nil, "debt.create", "debt", &targetID, map[string]any{
			"debt_id":     resp.ID.String(),
			"customer_id": resp.CustomerID.String(),
			"amount":      resp.OriginalAmount,
			"tier":        string(resp.Tier),
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Debts
// @Description  List debts filtered by customer or tier
// @Tags         debts
// @Accept       json
// @Produce      json
// @Param        customer_id  query  string  false  "Customer ID"
// @Param        tier         query  string  false  "Tier"
// @Success      200  {object}  []debtdomain.Debt
// @Router       /debts [get]
func (s *Server) ListDebts(c *gin.Context) {
	var query debtdomain.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.debtSvc.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Debt
// @Description  Get debt by ID
// @Tags         debts
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Debt ID"
// @Success      200  {object}  debtdomain.Debt
// @Router       /debts/{id} [get]
func (s *Server) GetDebt(c *gin.Context) {
	resp, err := s.debtSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Pay Debt
// @Description  Mark a debt as paid
// @Tags         debts
// @Accept       json
// @Produce      json
// @Param        id       path  string          true   "Debt ID"
// @Param        request  body  payDebtRequest  false  "Pay Debt Request"
// @Success      200  {object}  debtdomain.Debt
// @Router       /debts/{id}/pay [post]
func (s *Server) PayDebt(c *gin.Context) {
	var req payDebtRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	resp, err := s.debtSvc.MarkPaid(c.Request.Context(), debtdomain.MarkPaidRequest{
		ID:            c.Param("id"),
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID.String()
		_ = s.auditSvc.AuditLog(c.Request.Context(), auditdomain.ActorTypeUser, nil, "debt.pay", "debt", &targetID, map[string]any{
			"debt_id":        resp.ID.String(),
			"payment_method": strings.TrimSpace(req.PaymentMethod),
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Cancel Debt
// @Description  Cancel an open debt
// @Tags         debts
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Debt ID"
// @Success      200  {object}  debtdomain.Debt
// @Router       /debts/{id}/cancel [post]
func (s *Server) CancelDebt(c *gin.Context) {
	resp, err := s.debtSvc.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID.String()
		_ = s.auditSvc.AuditLog(c.Request.Context(), auditdomain.ActorTypeUser, nil, "debt.cancel", "debt", &targetID, map[string]any{
			"debt_id": resp.ID.String(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
