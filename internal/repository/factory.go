package repository

import (
	"github.com/dojocycle/dojocycle/internal/domain/attendance"
	"github.com/dojocycle/dojocycle/internal/domain/billingperiod"
	"github.com/dojocycle/dojocycle/internal/domain/classgroup"
	"github.com/dojocycle/dojocycle/internal/domain/member"
	"github.com/dojocycle/dojocycle/internal/domain/notification"
	"github.com/dojocycle/dojocycle/internal/domain/payment"
	"github.com/dojocycle/dojocycle/internal/domain/policy"
	"github.com/dojocycle/dojocycle/internal/logger"
	"github.com/dojocycle/dojocycle/internal/postgres"
	postgresRepo "github.com/dojocycle/dojocycle/internal/repository/postgres"
	"go.uber.org/fx"
)

// Module provides every repository backed by postgres.
func Module() fx.Option {
	return fx.Provide(
		NewMemberRepository,
		NewBillingPeriodRepository,
		NewPaymentRepository,
		NewAttendanceRepository,
		NewClassGroupRepository,
		NewPolicyRepository,
		NewNotificationRepository,
	)
}

func NewMemberRepository(db *postgres.DB, logger *logger.Logger) member.Repository {
	return postgresRepo.NewMemberRepository(db, logger)
}

func NewBillingPeriodRepository(db *postgres.DB, logger *logger.Logger) billingperiod.Repository {
	return postgresRepo.NewBillingPeriodRepository(db, logger)
}

func NewPaymentRepository(db *postgres.DB, logger *logger.Logger) payment.Repository {
	return postgresRepo.NewPaymentRepository(db, logger)
}

func NewAttendanceRepository(db *postgres.DB, logger *logger.Logger) attendance.Repository {
	return postgresRepo.NewAttendanceRepository(db, logger)
}

func NewClassGroupRepository(db *postgres.DB, logger *logger.Logger) classgroup.Repository {
	return postgresRepo.NewClassGroupRepository(db, logger)
}

func NewPolicyRepository(db *postgres.DB, logger *logger.Logger) policy.Repository {
	return postgresRepo.NewPolicyRepository(db, logger)
}

func NewNotificationRepository(db *postgres.DB, logger *logger.Logger) notification.Repository {
	return postgresRepo.NewNotificationRepository(db, logger)
}
