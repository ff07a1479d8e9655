package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/trackboard/trackboard/internal/config"
	"github.com/trackboard/trackboard/internal/event_bus"
	"github.com/trackboard/trackboard/internal/utils"
	"github.com/trackboard/trackboard/pkg/board"
	"github.com/trackboard/trackboard/pkg/feed"
	"github.com/trackboard/trackboard/pkg/livesync"
	"github.com/trackboard/trackboard/pkg/schedule"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus

	ScheduleRepo    schedule.Repository
	ScheduleService schedule.Service
	ScheduleHandler *schedule.Handler

	FeedClient  feed.Client
	FeedService *feed.Service

	BoardService board.Service
	BoardHandler *board.Handler

	Coordinator     *livesync.Coordinator
	LiveSyncHandler *livesync.Handler
	SSEHandler      *livesync.SSEHandler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.ScheduleRepo = schedule.NewRepository(db)
	deps.ScheduleService = schedule.NewService(deps.ScheduleRepo, deps.EventBus)
	deps.ScheduleHandler = schedule.NewHandler(deps.ScheduleService)

	if cfg.Feed.URL != "" {
		deps.FeedClient = feed.NewHTTPClient(cfg.Feed.URL)
	}
	deps.FeedService = feed.NewService(deps.FeedClient, deps.EventBus)

	deps.BoardService = board.NewService(deps.ScheduleService, deps.FeedService, deps.Clock, cfg.Board.WindowDays)
	deps.BoardHandler = board.NewHandler(deps.BoardService)

	deps.Coordinator = livesync.NewCoordinator(livesync.Config{
		Persist: func(ctx context.Context, draft schedule.Schedule) error {
			if _, err := deps.ScheduleService.ReplaceSchedule(ctx, draft); err != nil {
				return fmt.Errorf("failed to persist edited schedule: %w", err)
			}
			return nil
		},
		Recompute: func(ctx context.Context) error {
			_, err := deps.BoardService.Snapshot(ctx)
			return err
		},
		EntryExists: func(ctx context.Context, id string) bool {
			sched, err := deps.ScheduleService.GetSchedule(ctx)
			if err != nil {
				return false
			}
			for _, e := range append(sched.Recurring, sched.AdHoc...) {
				if e.ID == id {
					return true
				}
			}
			return false
		},
	})
	deps.LiveSyncHandler = livesync.NewHandler(deps.Coordinator)
	deps.SSEHandler = livesync.NewSSEHandler(deps.EventBus)

	return deps
}
