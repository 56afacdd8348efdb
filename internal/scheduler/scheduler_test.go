package scheduler

import (
	"testing"
	"time"

	"github.com/dojocycle/dojocycle/internal/domain/policy"
	"github.com/dojocycle/dojocycle/internal/service"
	"github.com/dojocycle/dojocycle/internal/testutil"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type SchedulerSuite struct {
	testutil.BaseServiceTestSuite
	scheduler *Scheduler
	clock     time.Time
}

func TestScheduler(t *testing.T) {
	suite.Run(t, new(SchedulerSuite))
}

func (s *SchedulerSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.GetConfig().Reminders.Timezone = "UTC"

	stores := s.GetStores()
	params := service.NewServiceParams(
		s.GetLogger(),
		s.GetConfig(),
		s.GetDB(),
		s.GetCache(),
		s.GetSentry(),
		stores.MemberRepo,
		stores.BillingPeriodRepo,
		stores.PaymentRepo,
		stores.AttendanceRepo,
		stores.ClassGroupRepo,
		stores.PolicyRepo,
		stores.NotificationRepo,
		s.GetPublisher(),
		s.GetSender(),
	)
	s.scheduler = New(s.GetConfig(), params)
	s.scheduler.now = func() time.Time { return s.clock }
}

func (s *SchedulerSuite) TestTickRunsOncePerPeriod() {
	start, _ := types.ParseISODate("2025-01-01")
	end, _ := types.ParseISODate("2025-02-01")
	s.CreateTestMember("30000001", start, end)

	// default policy: day 7 at 09:00
	s.clock = time.Date(2025, time.March, 7, 8, 59, 0, 0, time.UTC)
	s.scheduler.Tick(s.GetContext())
	s.Empty(s.GetSender().Sent())

	s.clock = time.Date(2025, time.March, 7, 9, 30, 0, 0, time.UTC)
	s.scheduler.Tick(s.GetContext())
	s.Len(s.GetSender().Sent(), 1)

	s.clock = s.clock.Add(time.Minute)
	s.scheduler.Tick(s.GetContext())
	s.Len(s.GetSender().Sent(), 1)

	logs, err := s.GetStores().NotificationRepo.ListByPeriod(s.GetContext(), "2025-03")
	s.Require().NoError(err)
	s.Len(logs, 1)
}

func (s *SchedulerSuite) TestTickSkipsOtherDays() {
	start, _ := types.ParseISODate("2025-01-01")
	end, _ := types.ParseISODate("2025-02-01")
	s.CreateTestMember("30000001", start, end)

	s.clock = time.Date(2025, time.March, 8, 9, 30, 0, 0, time.UTC)
	s.scheduler.Tick(s.GetContext())
	s.Empty(s.GetSender().Sent())
}

func (s *SchedulerSuite) TestStartDisabled() {
	s.GetConfig().Reminders.Enabled = false
	s.NoError(s.scheduler.Start(s.GetContext()))
	s.NoError(s.scheduler.Stop(s.GetContext()))
}

func TestIsDue(t *testing.T) {
	p := policy.Default()
	p.NotificationsDay = 31
	p.AutoHour = "18:15"

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{name: "clamped_day_in_february", now: time.Date(2025, time.February, 28, 18, 15, 0, 0, time.UTC), want: true},
		{name: "before_hour", now: time.Date(2025, time.February, 28, 18, 14, 0, 0, time.UTC), want: false},
		{name: "later_same_day", now: time.Date(2025, time.March, 31, 23, 0, 0, 0, time.UTC), want: true},
		{name: "wrong_day", now: time.Date(2025, time.March, 30, 19, 0, 0, 0, time.UTC), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isDue(p, tt.now))
		})
	}
}
