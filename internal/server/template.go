package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	templatedomain "github.com/smallbiznis/kolekta/internal/messagetemplate/domain"
)

type createTemplateRequest struct {
	Channel      string   `json:"channel"`
	Tone         string   `json:"tone"`
	MinDays      int      `json:"min_days"`
	Subject      string   `json:"subject"`
	Body         string   `json:"body"`
	Placeholders []string `json:"placeholders"`
}

// @Summary      Create Template
// @Description  Author a new message template
// @Tags         templates
// @Accept       json
// @Produce      json
// @Param        request body createTemplateRequest true "Create Template Request"
// @Success      200  {object}  templatedomain.MessageTemplate
// @Router       /templates [post]
func (s *Server) CreateTemplate(c *gin.Context) {
	var req createTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.templateSvc.Create(c.Request.Context(), templatedomain.CreateRequest{
		Channel:      strings.TrimSpace(req.Channel),
		Tone:         strings.TrimSpace(req.Tone),
		MinDays:      req.MinDays,
		Subject:      req.Subject,
		Body:         req.Body,
		Placeholders: req.Placeholders,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Templates
// @Description  List templates filtered by channel, tone, or active flag
// @Tags         templates
// @Accept       json
// @Produce      json
// @Param        channel  query  string  false  "Channel"
// @Param        tone     query  string  false  "Tone"
// @Param        active   query  bool    false  "Active"
// @Success      200  {object}  []templatedomain.MessageTemplate
// @Router       /templates [get]
func (s *Server) ListTemplates(c *gin.Context) {
	var query templatedomain.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.templateSvc.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Deactivate Template
// @Description  Retire a template from selection
// @Tags         templates
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Template ID"
// @Success      200  {object}  templatedomain.MessageTemplate
// @Router       /templates/{id}/deactivate [post]
func (s *Server) DeactivateTemplate(c *gin.Context) {
	resp, err := s.templateSvc.Deactivate(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
