package service

import (
	"github.com/dojocycle/dojocycle/internal/cache"
	"github.com/dojocycle/dojocycle/internal/config"
	"github.com/dojocycle/dojocycle/internal/domain/attendance"
	"github.com/dojocycle/dojocycle/internal/domain/billingperiod"
	"github.com/dojocycle/dojocycle/internal/domain/classgroup"
	"github.com/dojocycle/dojocycle/internal/domain/member"
	"github.com/dojocycle/dojocycle/internal/domain/notification"
	"github.com/dojocycle/dojocycle/internal/domain/payment"
	"github.com/dojocycle/dojocycle/internal/domain/policy"
	"github.com/dojocycle/dojocycle/internal/logger"
	"github.com/dojocycle/dojocycle/internal/postgres"
	"github.com/dojocycle/dojocycle/internal/publisher"
	"github.com/dojocycle/dojocycle/internal/sentry"
	"github.com/dojocycle/dojocycle/internal/whatsapp"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient
	Cache  cache.Cache
	Sentry *sentry.Service

	// Repositories
	MemberRepo        member.Repository
	BillingPeriodRepo billingperiod.Repository
	PaymentRepo       payment.Repository
	AttendanceRepo    attendance.Repository
	ClassGroupRepo    classgroup.Repository
	PolicyRepo        policy.Repository
	NotificationRepo  notification.Repository

	// Publishers
	EventPublisher publisher.EventPublisher

	// Notifications
	Sender whatsapp.Sender
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	cache cache.Cache,
	sentry *sentry.Service,
	memberRepo member.Repository,
	billingPeriodRepo billingperiod.Repository,
	paymentRepo payment.Repository,
	attendanceRepo attendance.Repository,
	classGroupRepo classgroup.Repository,
	policyRepo policy.Repository,
	notificationRepo notification.Repository,
	eventPublisher publisher.EventPublisher,
	sender whatsapp.Sender,
) ServiceParams {
	return ServiceParams{
		Logger:            logger,
		Config:            config,
		DB:                db,
		Cache:             cache,
		Sentry:            sentry,
		MemberRepo:        memberRepo,
		BillingPeriodRepo: billingPeriodRepo,
		PaymentRepo:       paymentRepo,
		AttendanceRepo:    attendanceRepo,
		ClassGroupRepo:    classGroupRepo,
		PolicyRepo:        policyRepo,
		NotificationRepo:  notificationRepo,
		EventPublisher:    eventPublisher,
		Sender:            sender,
	}
}
