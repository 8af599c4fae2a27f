package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	campaigndomain "github.com/smallbiznis/kolekta/internal/campaign/domain"
)

type createCampaignRequest struct {
	Variant     string         `json:"variant"`
	Tone        string         `json:"tone"`
	Channels    []string       `json:"channels"`
	CadenceDays int            `json:"cadence_days"`
	Config      map[string]any `json:"config"`
}

// @Summary      Create Campaign
// @Description  Create an A/B campaign variant
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        request body createCampaignRequest true "Create Campaign Request"
// @Success      200  {object}  campaigndomain.Campaign
// @Router       /campaigns [post]
func (s *Server) CreateCampaign(c *gin.Context) {
	var req createCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.campaignSvc.Create(c.Request.Context(), campaigndomain.CreateRequest{
		Variant:     strings.TrimSpace(req.Variant),
		Tone:        strings.TrimSpace(req.Tone),
		Channels:    req.Channels,
		CadenceDays: req.CadenceDays,
		Config:      req.Config,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Campaign
// @Description  Get campaign with raw counters by ID
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Campaign ID"
// @Success      200  {object}  campaigndomain.Campaign
// @Router       /campaigns/{id} [get]
func (s *Server) GetCampaign(c *gin.Context) {
	resp, err := s.campaignSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Compare Campaigns
// @Description  Compare derived rates of two campaigns
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        id    path   string  true  "First Campaign ID"
// @Param        with  query  string  true  "Second Campaign ID"
// @Success      200  {object}  campaigndomain.Comparison
// @Router       /campaigns/{id}/compare [get]
func (s *Server) CompareCampaigns(c *gin.Context) {
	aID := strings.TrimSpace(c.Param("id"))
	bID := strings.TrimSpace(c.Query("with"))
	if bID == "" {
		AbortWithError(c, newValidationError("with", "missing_campaign_id", "query parameter with is required"))
		return
	}

	resp, err := s.campaignSvc.Compare(c.Request.Context(), aID, bID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
