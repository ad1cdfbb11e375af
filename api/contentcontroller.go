package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"econtent/planner"
	"econtent/types"
)

// PlanSlotInput is one slot of a content-plan request
type PlanSlotInput struct {
	SlotID   string           `json:"slot_id" binding:"required"`
	PostType types.PostType   `json:"post_type" binding:"required"`
	Window   types.PlanWindow `json:"window" binding:"required"`
}

// NewsItemInput is one news item of a content-plan request
type NewsItemInput struct {
	NewsID      string     `json:"news_id" binding:"required"`
	Headline    string     `json:"headline" binding:"required"`
	IsBreaking  bool       `json:"is_breaking"`
	PublishedAt *time.Time `json:"published_at"`
}

// ContentPlanRequest asks the planner to match slots with news items
type ContentPlanRequest struct {
	PlanSlots []PlanSlotInput `json:"plan_slots" binding:"required"`
	NewsItems []NewsItemInput `json:"news_items" binding:"required"`
}

// ContentPlanResponse carries the planned tasks
type ContentPlanResponse struct {
	Tasks []types.ContentTask `json:"tasks"`
}

// GenerateContentRequest asks for a Telegram-ready post
type GenerateContentRequest struct {
	Headline    string         `json:"headline" binding:"required"`
	Summary     string         `json:"summary" binding:"required"`
	KeyFacts    []string       `json:"key_facts" binding:"required"`
	ContentType types.PostType `json:"content_type" binding:"required"`
}

func (s *Server) registerContentRoutes(r *gin.Engine) {
	g := r.Group("/api")
	g.POST("/content-plan", s.handleContentPlan)
	g.POST("/generate-content", s.handleGenerateContent)
}

// handleContentPlan runs the planner over caller-supplied slots and news
func (s *Server) handleContentPlan(c *gin.Context) {
	var req ContentPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slots := make([]types.PlanSlot, 0, len(req.PlanSlots))
	for _, slot := range req.PlanSlots {
		if !slot.Window.Valid() || !slot.PostType.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown window or post_type for slot " + slot.SlotID})
			return
		}
		slots = append(slots, types.PlanSlot{SlotID: slot.SlotID, PostType: slot.PostType, Window: slot.Window})
	}

	news := make([]*types.NewsItem, 0, len(req.NewsItems))
	for _, item := range req.NewsItems {
		news = append(news, &types.NewsItem{
			NewsID:      item.NewsID,
			Headline:    item.Headline,
			IsBreaking:  item.IsBreaking,
			PublishedAt: item.PublishedAt,
		})
	}

	tasks, err := planner.CreateTasks(slots, news)
	if err != nil {
		var planErr *planner.PlanningError
		if errors.As(err, &planErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ContentPlanResponse{Tasks: tasks})
}

// handleGenerateContent produces one post from caller-supplied inputs
func (s *Server) handleGenerateContent(c *gin.Context) {
	if s.deps.Content == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "generation credential is not configured"})
		return
	}

	var req GenerateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	content, err := s.deps.Content.Generate(c.Request.Context(), req.Headline, req.Summary, req.KeyFacts, req.ContentType)
	if err != nil {
		writeGenerationError(c, err)
		return
	}

	c.JSON(http.StatusOK, content)
}
