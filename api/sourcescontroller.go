package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"econtent/types"
)

// AddSourceRequest registers a feed source
type AddSourceRequest struct {
	URL  string `json:"url" binding:"required"`
	Name string `json:"name"`
}

// ListSourcesResponse carries the registered feed sources
type ListSourcesResponse struct {
	Sources []types.Source `json:"sources"`
	Count   int            `json:"count"`
}

func (s *Server) registerSourceRoutes(r *gin.Engine) {
	g := r.Group("/api")
	g.POST("/sources", s.handleAddSource)
	g.GET("/sources", s.handleListSources)
}

func (s *Server) handleAddSource(c *gin.Context) {
	if s.deps.Registry == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "source registry is not configured"})
		return
	}

	var req AddSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	source, err := s.deps.Registry.AddSource(c.Request.Context(), req.URL, req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, source)
}

func (s *Server) handleListSources(c *gin.Context) {
	if s.deps.Registry == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "source registry is not configured"})
		return
	}

	sources, err := s.deps.Registry.ListSources(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ListSourcesResponse{Sources: sources, Count: len(sources)})
}
