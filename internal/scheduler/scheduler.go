package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/dojocycle/dojocycle/internal/api/dto"
	"github.com/dojocycle/dojocycle/internal/config"
	"github.com/dojocycle/dojocycle/internal/domain/policy"
	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/dojocycle/dojocycle/internal/logger"
	"github.com/dojocycle/dojocycle/internal/service"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/robfig/cron/v3"
	"github.com/samber/lo"
)

// Scheduler fires the monthly reminder batch of every tenant on the day and
// hour of its billing policy.
type Scheduler struct {
	cron     *cron.Cron
	params   service.ServiceParams
	config   *config.RemindersConfig
	logger   *logger.Logger
	location *time.Location
	now      func() time.Time

	mu      sync.Mutex
	lastRun map[string]types.PeriodKey // tenant -> last period reminded
}

// New creates a scheduler. It does nothing until Start is called.
func New(cfg *config.Configuration, params service.ServiceParams) *Scheduler {
	location, err := time.LoadLocation(cfg.Reminders.Timezone)
	if err != nil {
		params.Logger.Warnw("unknown reminders timezone, using UTC",
			"timezone", cfg.Reminders.Timezone,
			"error", err,
		)
		location = time.UTC
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(location), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		params:   params,
		config:   &cfg.Reminders,
		logger:   params.Logger,
		location: location,
		now:      time.Now,
		lastRun:  make(map[string]types.PeriodKey),
	}
}

// Start registers the tick job and starts cron.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.logger.Info("reminder scheduler disabled by config")
		return nil
	}

	_, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.Tick(context.Background())
	})
	if err != nil {
		return ierr.WithError(err).
			WithHintf("Invalid reminders schedule %q", s.config.Schedule).
			Mark(ierr.ErrValidation)
	}

	s.cron.Start()
	s.logger.Infow("reminder scheduler started",
		"schedule", s.config.Schedule,
		"timezone", s.location.String(),
	)
	return nil
}

// Stop waits for a running tick to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
		s.logger.Info("reminder scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Tick runs the batch for every tenant whose reminder time has come this month
// and that has not been reminded for the current period yet.
func (s *Scheduler) Tick(ctx context.Context) {
	now := s.now().In(s.location)

	tenants, err := s.params.PolicyRepo.ListTenantIDs(ctx)
	if err != nil {
		s.logger.Errorw("failed to list tenants for reminders", "error", err)
		return
	}
	// the default tenant runs on the configured policy even before saving one
	tenants = lo.Uniq(append([]string{types.DefaultTenantID}, tenants...))

	for _, tenantID := range tenants {
		tenantCtx := types.SetTenantID(ctx, tenantID)
		if err := s.runTenant(tenantCtx, now); err != nil {
			s.params.Sentry.CaptureException(tenantCtx, err)
			s.logger.Errorw("reminder batch failed",
				"tenant_id", tenantID,
				"error", err,
			)
		}
	}
}

func (s *Scheduler) runTenant(ctx context.Context, now time.Time) error {
	tenantID := types.GetTenantID(ctx)
	today := types.DateOf(now)
	period := types.PeriodKeyOf(today)

	s.mu.Lock()
	done := s.lastRun[tenantID] == period
	s.mu.Unlock()
	if done {
		return nil
	}

	p, err := service.NewPolicyService(s.params).GetPolicy(ctx)
	if err != nil {
		return err
	}
	if !isDue(*p, now) {
		return nil
	}

	// marked before running so a failing batch is not retried every minute
	s.mu.Lock()
	s.lastRun[tenantID] = period
	s.mu.Unlock()

	result, err := service.NewReminderService(s.params).RunReminders(ctx, dto.RunRemindersRequest{
		Period: period.String(),
	}, today)
	if err != nil {
		return err
	}

	s.logger.Infow("scheduled reminder batch finished",
		"tenant_id", tenantID,
		"period", result.Period,
		"sent", result.Sent,
		"failed", result.Failed,
		"skipped", result.Skipped,
	)
	return nil
}

// isDue reports whether now is on the reminder day of its month at or after the reminder time.
func isDue(p policy.BillingPolicy, now time.Time) bool {
	if now.Day() != p.ReminderDay(now.Year(), now.Month()) {
		return false
	}
	hour, minute := p.ReminderTime()
	return now.Hour()*60+now.Minute() >= hour*60+minute
}
