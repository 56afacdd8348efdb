package main

import (
	"context"
	"time"

	"github.com/dojocycle/dojocycle/internal/api"
	v1 "github.com/dojocycle/dojocycle/internal/api/v1"
	"github.com/dojocycle/dojocycle/internal/cache"
	"github.com/dojocycle/dojocycle/internal/config"
	"github.com/dojocycle/dojocycle/internal/httpclient"
	"github.com/dojocycle/dojocycle/internal/logger"
	"github.com/dojocycle/dojocycle/internal/postgres"
	"github.com/dojocycle/dojocycle/internal/publisher"
	"github.com/dojocycle/dojocycle/internal/pubsub/memory"
	pubsubRouter "github.com/dojocycle/dojocycle/internal/pubsub/router"
	"github.com/dojocycle/dojocycle/internal/pyroscope"
	"github.com/dojocycle/dojocycle/internal/repository"
	"github.com/dojocycle/dojocycle/internal/scheduler"
	"github.com/dojocycle/dojocycle/internal/sentry"
	"github.com/dojocycle/dojocycle/internal/service"
	"github.com/dojocycle/dojocycle/internal/subscriber"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/dojocycle/dojocycle/internal/validator"
	"github.com/dojocycle/dojocycle/internal/whatsapp"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// HTTP Client
			httpclient.NewDefaultClient,

			// PubSub
			memory.NewPubSub,
			publisher.NewEventPublisher,
			pubsubRouter.NewRouter,

			// Messaging
			whatsapp.NewClient,
		),
		sentry.Module(),
		pyroscope.Module(),
		cache.Module(),
		postgres.Module(),
		repository.Module(),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewPolicyService,
			service.NewMemberService,
			service.NewMembershipService,
			service.NewCheckInService,
			service.NewClassGroupService,
			service.NewReminderService,
		),
	)

	// API, subscribers and scheduler
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
			subscriber.NewHandler,
			scheduler.New,
		),
		fx.Invoke(
			validator.NewValidator,
			setLocalTimezone,
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	db postgres.IClient,
	logger *logger.Logger,
	policyService service.PolicyService,
	memberService service.MemberService,
	membershipService service.MembershipService,
	checkInService service.CheckInService,
	classGroupService service.ClassGroupService,
	reminderService service.ReminderService,
) api.Handlers {
	return api.Handlers{
		Health:       v1.NewHealthHandler(db, logger),
		Policy:       v1.NewPolicyHandler(policyService, logger),
		Member:       v1.NewMemberHandler(memberService, membershipService, logger),
		Payment:      v1.NewPaymentHandler(membershipService, logger),
		Attendance:   v1.NewAttendanceHandler(checkInService, logger),
		ClassGroup:   v1.NewClassGroupHandler(classGroupService, logger),
		Notification: v1.NewNotificationHandler(reminderService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger, sentrySvc *sentry.Service) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger, sentrySvc)
}

// setLocalTimezone makes "today" follow the school's clock for every request.
func setLocalTimezone(cfg *config.Configuration, log *logger.Logger) {
	location, err := time.LoadLocation(cfg.Reminders.Timezone)
	if err != nil {
		log.Warnw("unknown timezone, keeping process default",
			"timezone", cfg.Reminders.Timezone,
			"error", err,
		)
		return
	}
	time.Local = location
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	router *pubsubRouter.Router,
	handler subscriber.Handler,
	sched *scheduler.Scheduler,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal:
		startAPIServer(lc, r, cfg, log)
		startMessageRouter(lc, router, handler, log)
		startScheduler(lc, sched, log)
	case types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
		startMessageRouter(lc, router, handler, log)
	case types.ModeScheduler:
		startMessageRouter(lc, router, handler, log)
		startScheduler(lc, sched, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server...", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}

func startMessageRouter(
	lc fx.Lifecycle,
	router *pubsubRouter.Router,
	handler subscriber.Handler,
	log *logger.Logger,
) {
	handler.RegisterHandler(router)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting message router")
			go func() {
				if err := router.Run(context.Background()); err != nil {
					log.Errorw("Message router failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Stopping message router")
			return router.Close()
		},
	})
}

func startScheduler(lc fx.Lifecycle, sched *scheduler.Scheduler, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting reminder scheduler")
			return sched.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return sched.Stop(ctx)
		},
	})
}
