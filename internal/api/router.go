package api

import (
	v1 "github.com/dojocycle/dojocycle/internal/api/v1"
	"github.com/dojocycle/dojocycle/internal/config"
	"github.com/dojocycle/dojocycle/internal/logger"
	"github.com/dojocycle/dojocycle/internal/rest/middleware"
	"github.com/dojocycle/dojocycle/internal/sentry"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health       *v1.HealthHandler
	Policy       *v1.PolicyHandler
	Member       *v1.MemberHandler
	Payment      *v1.PaymentHandler
	Attendance   *v1.AttendanceHandler
	ClassGroup   *v1.ClassGroupHandler
	Notification *v1.NotificationHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger, sentrySvc *sentry.Service) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.CORSMiddleware,
		middleware.RequestIDMiddleware,
		middleware.SentryMiddleware(cfg),
		middleware.ErrorHandler(logger, sentrySvc),
	)

	router.GET("/health", handlers.Health.Health)

	v1Router := router.Group("/v1")
	v1Router.Use(
		middleware.TenantMiddleware,
		middleware.SentryScopeMiddleware,
		middleware.PyroscopeMiddleware(cfg),
	)

	policy := v1Router.Group("/policy")
	{
		policy.GET("", handlers.Policy.GetPolicy)
		policy.PUT("", handlers.Policy.UpdatePolicy)
	}

	members := v1Router.Group("/members")
	{
		members.POST("/quote", handlers.Member.Quote)
		members.POST("", handlers.Member.Enroll)
		members.GET("", handlers.Member.ListMembers)
		members.GET("/:id", handlers.Member.GetMember)
		members.PUT("/:id", handlers.Member.UpdateMember)
		members.DELETE("/:id", handlers.Member.DeactivateMember)
		members.POST("/:id/renew", handlers.Member.Renew)
		members.GET("/:id/status", handlers.Member.GetStatus)
		members.GET("/:id/periods", handlers.Member.ListPeriods)
		members.POST("/:id/periods", handlers.Member.CreatePeriod)
		members.GET("/:id/periods/current", handlers.Member.GetCurrentPeriod)
		members.GET("/:id/payments", handlers.Member.ListPayments)
	}

	v1Router.POST("/payments", handlers.Payment.RecordPayment)
	v1Router.POST("/checkins", handlers.Attendance.CheckIn)

	attendance := v1Router.Group("/attendance")
	{
		attendance.GET("/today", handlers.Attendance.ListToday)
		attendance.GET("/today/count", handlers.Attendance.CountToday)
		attendance.POST("/dismiss", handlers.Attendance.Dismiss)
	}

	classes := v1Router.Group("/classes")
	{
		classes.GET("", handlers.ClassGroup.ListClassGroups)
		classes.POST("", handlers.ClassGroup.CreateClassGroup)
		classes.PUT("/:id", handlers.ClassGroup.UpdateClassGroup)
		classes.DELETE("/:id", handlers.ClassGroup.DeleteClassGroup)
	}

	notifications := v1Router.Group("/notifications")
	{
		notifications.POST("/reminders", handlers.Notification.RunReminders)
		notifications.POST("/send", handlers.Notification.SendMessage)
		notifications.GET("/logs/:period", handlers.Notification.GetLogs)
	}

	return router
}
