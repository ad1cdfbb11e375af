package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"econtent/generation"
	"econtent/registry"
	"econtent/reporting"
	"econtent/scheduler"
)

// Deps are the collaborators the HTTP layer exposes. Optional ones may be
// nil; the corresponding routes answer with a configuration error.
type Deps struct {
	State     *scheduler.Manager
	Runner    *scheduler.Runner
	Reporting *reporting.Service

	// nil when no generation credential is configured
	Content   *generation.ContentGenerator
	Headlines *generation.HeadlineGenerator
	Summarize *generation.Summarizer

	// nil when Redis is not configured
	Registry *registry.Registry
}

// Server is the HTTP server plus the cron trigger for the daily run
type Server struct {
	deps       Deps
	httpServer *http.Server
	cron       *cron.Cron
}

// NewServer constructs the server with registered routes
func NewServer(deps Deps, port string) *Server {
	s := &Server{
		deps: deps,
		cron: cron.New(),
	}

	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	s.registerContentRoutes(r)
	s.registerNewsRoutes(r)
	s.registerReportRoutes(r)
	s.registerSourceRoutes(r)
	s.registerStatusRoutes(r)

	s.httpServer = &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Printf("Starting API server on %s", s.httpServer.Addr)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	return nil
}

// StartCron schedules the daily automation run. The state manager guarantees
// a triggered run is skipped while another is still active.
func (s *Server) StartCron(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		log.Println("Cron triggered: starting daily automation run")
		if !s.deps.State.TryStart() {
			log.Printf("Cron skipped: a run is already active (state=%s)", s.deps.State.GetState())
			return
		}
		if err := s.deps.Runner.RunDaily(context.Background()); err != nil {
			log.Printf("Cron run error: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.cron.Start()
	log.Printf("Cron job started with schedule: %s", schedule)
	return nil
}

// Shutdown gracefully shuts down the server and stops the cron trigger
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down API server...")

	if s.cron != nil {
		s.cron.Stop()
	}

	return s.httpServer.Shutdown(ctx)
}
