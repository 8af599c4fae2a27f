package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/kolekta/internal/audit/domain"
	communicationdomain "github.com/smallbiznis/kolekta/internal/communication/domain"
	dispatchdomain "github.com/smallbiznis/kolekta/internal/dispatch/domain"
)

type sendCommunicationRequest struct {
	CustomerID string `json:"customer_id"`
	DebtID     string `json:"debt_id"`
	Channel    string `json:"channel"`
	Tone       string `json:"tone"`
	CampaignID string `json:"campaign_id"`
}

// @Summary      Send Communication
// @Description  Select a template, render it, and dispatch over the channel transport
// @Tags         communications
// @Accept       json
// @Produce      json
// @Param        request body sendCommunicationRequest true "Send Communication Request"
// @Success      200  {object}  communicationdomain.Communication
// @Router       /communications [post]
func (s *Server) SendCommunication(c *gin.Context) {
	var req sendCommunicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	comm, err := s.dispatchSvc.Dispatch(c.Request.Context(), dispatchdomain.Request{
		CustomerID: strings.TrimSpace(req.CustomerID),
		DebtID:     strings.TrimSpace(req.DebtID),
		Channel:    strings.TrimSpace(req.Channel),
		Tone:       strings.TrimSpace(req.Tone),
		CampaignID: strings.TrimSpace(req.CampaignID),
	})
	if err != nil && !errors.Is(err, dispatchdomain.ErrTransportFailure) {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil && comm != nil {
		targetID := comm.ID.String()
		_ = s.auditSvc.AuditLog(c.Request.Context(), auditdomain.ActorTypeUser, nil, "communication.send", "communication", &targetID, map[string]any{
			"communication_id": comm.ID.String(),
			"debt_id":          comm.DebtID.String(),
			"channel":          string(comm.Channel),
			"status":           string(comm.Status),
		})
	}

	// A transport failure still produced a finalized Communication row.
	// Report the failure without hiding the record.
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"data":  comm,
			"error": gin.H{"kind": dispatchdomain.ErrTransportFailure.Error(), "message": "transport failed to deliver the message"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": comm})
}

// @Summary      List Communications
// @Description  List dispatch attempts filtered by debt, customer, or status
// @Tags         communications
// @Accept       json
// @Produce      json
// @Param        debt_id      query  string  false  "Debt ID"
// @Param        customer_id  query  string  false  "Customer ID"
// @Param        status       query  string  false  "Status"
// @Success      200  {object}  []communicationdomain.Communication
// @Router       /communications [get]
func (s *Server) ListCommunications(c *gin.Context) {
	var query communicationdomain.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.commRepo.List(c.Request.Context(), s.db, query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Communication
// @Description  Get one dispatch attempt by ID
// @Tags         communications
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Communication ID"
// @Success      200  {object}  communicationdomain.Communication
// @Router       /communications/{id} [get]
func (s *Server) GetCommunication(c *gin.Context) {
	id, err := communicationdomain.ParseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, communicationdomain.ErrInvalidID)
		return
	}

	comm, err := s.commRepo.FindByID(c.Request.Context(), s.db, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if comm == nil {
		AbortWithError(c, communicationdomain.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": comm})
}
