package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/kolekta/internal/audit/domain"
)

// RunReclassifyJob triggers one reclassification sweep outside the cron
// schedule. The sweep is idempotent, so overlapping with a scheduled run
// is harmless.
func (s *Server) RunReclassifyJob(c *gin.Context) {
	result, err := s.worker.RunOnce(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.AuditLog(c.Request.Context(), auditdomain.ActorTypeSystem, nil, "debt.reclassify_sweep", "debt", nil, map[string]any{
			"scanned":      result.Scanned,
			"reclassified": result.Reclassified,
			"failed":       result.Failed,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}
