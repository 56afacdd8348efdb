package service

import (
	"github.com/dojocycle/dojocycle/internal/testutil"
	"github.com/dojocycle/dojocycle/internal/types"
)

// newTestServiceParams wires the suite's in-memory stores and fakes into ServiceParams.
func newTestServiceParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	stores := s.GetStores()
	return NewServiceParams(
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
}

func date(s string) types.ISODate {
	d, err := types.ParseISODate(s)
	if err != nil {
		panic(err)
	}
	return d
}
