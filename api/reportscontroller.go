package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"econtent/reporting"
)

func (s *Server) registerReportRoutes(r *gin.Engine) {
	g := r.Group("/api")
	g.GET("/reports/kpis", s.handleDailyKPIs)
}

// handleDailyKPIs reports the KPIs for one day. The optional date query
// parameter takes YYYY-MM-DD; it defaults to today.
func (s *Server) handleDailyKPIs(c *gin.Context) {
	targetDate := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted as YYYY-MM-DD"})
			return
		}
		targetDate = parsed
	}

	kpis, err := s.deps.Reporting.GetDailyKPIs(targetDate)
	if err != nil {
		var repErr *reporting.ReportingError
		if errors.As(err, &repErr) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, kpis)
}
