package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"github.com/trackboard/trackboard/internal/config"
	"github.com/trackboard/trackboard/internal/database"
	"github.com/trackboard/trackboard/internal/event_bus"
	"github.com/trackboard/trackboard/internal/rest"
)

// Application wires configuration, database, router, timers, and server lifecycle.
type Application struct {
	cfg    config.Application
	router *mux.Router
	srv    *http.Server
	cron   *cron.Cron
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication() (*Application, error) {
	cfg, err := config.Load("./config/application.yaml")
	if err != nil {
		return nil, err
	}

	// DB + migrations
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	// db will be closed when server shuts down; defer not possible here, leave to process exit.
	if err := database.Migrate(db); err != nil {
		return nil, err
	}

	r := mux.NewRouter()

	// Build dependencies (services, handlers...)
	deps := BuildDependencies(db, cfg)

	// Middleware chain
	SetupMiddleware(r, deps, cfg)

	// Routes
	RegisterRoutes(r, deps, cfg)

	// Frontend
	if cfg.Frontend.Enabled {
		frontend := rest.NewFrontendHandler("frontend", "index.html")
		r.PathPrefix("/").Handler(frontend)
	}

	c, err := scheduleJobs(deps, cfg)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Handler:      r,
		Addr:         ":7000",
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, router: r, srv: srv, cron: c}, nil
}

// scheduleJobs registers the periodic feed refresh and the announcement page
// rotation. Both are gated on the edit coordinator: a timer tick while a
// surface is editing performs nothing.
func scheduleJobs(deps *Dependencies, cfg config.Application) (*cron.Cron, error) {
	c := cron.New()

	if cfg.Feed.URL != "" {
		_, err := c.AddFunc(fmt.Sprintf("@every %ds", cfg.Feed.RefreshSeconds), func() {
			if !deps.Coordinator.AllowRecompute() {
				log.Debug("skipping feed refresh: edit in progress")
				return
			}
			deps.FeedService.Refresh(context.Background())
		})
		if err != nil {
			return nil, fmt.Errorf("failed to schedule feed refresh: %w", err)
		}
	}

	_, err := c.AddFunc(fmt.Sprintf("@every %ds", cfg.Board.PageSeconds), func() {
		if !deps.Coordinator.AllowRecompute() {
			log.Debug("skipping page rotation: edit in progress")
			return
		}
		snapshot, err := deps.BoardService.AdvancePage(context.Background())
		if err != nil {
			log.Errorf("page rotation failed: %v", err)
			return
		}
		// A board with zero or one page does not rotate.
		if snapshot.TotalPages > 1 {
			if err := deps.EventBus.Publish(event_bus.NewEvent(context.Background(), event_bus.BoardRotated)); err != nil {
				log.Errorf("failed to publish page rotation: %v", err)
			}
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule page rotation: %w", err)
	}

	return c, nil
}

// Run starts the timers and the HTTP server, then blocks.
func (a *Application) Run() error {
	a.cron.Start()
	log.Infof("Starting server on %s", a.srv.Addr)
	return a.srv.ListenAndServe()
}
