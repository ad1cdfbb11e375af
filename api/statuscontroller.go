package api

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) registerStatusRoutes(r *gin.Engine) {
	r.GET("/api/health", s.handleHealth)
	r.GET("/api/status", s.handleStatus)
	r.POST("/api/run", s.handleRun)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// handleStatus reports the current run state, counters and recent log
func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.State.GetStatus())
}

// handleRun triggers the daily automation run out of schedule. A run that
// is already active is not interrupted; the caller gets a 409 instead.
func (s *Server) handleRun(c *gin.Context) {
	if !s.deps.State.TryStart() {
		c.JSON(http.StatusConflict, gin.H{
			"error": "a run is already active",
			"state": s.deps.State.GetState(),
		})
		return
	}

	go func() {
		if err := s.deps.Runner.RunDaily(context.Background()); err != nil {
			log.Printf("Manual run error: %v", err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"message": "run started"})
}
