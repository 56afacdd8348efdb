package service

import (
	"testing"

	"github.com/dojocycle/dojocycle/internal/api/dto"
	"github.com/dojocycle/dojocycle/internal/config"
	"github.com/dojocycle/dojocycle/internal/domain/policy"
	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/dojocycle/dojocycle/internal/testutil"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PolicyServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PolicyService
}

func TestPolicyService(t *testing.T) {
	suite.Run(t, new(PolicyServiceSuite))
}

func (s *PolicyServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewPolicyService(newTestServiceParams(&s.BaseServiceTestSuite))
}

func (s *PolicyServiceSuite) TestGetPolicyDefaults() {
	p, err := s.service.GetPolicy(s.GetContext())
	s.Require().NoError(err)
	s.Equal(policy.DefaultDueDay, p.DueDay)
	s.Equal(policy.DefaultWindowEndDay, p.WindowEndDay)
	s.True(decimal.NewFromInt(25000).Equal(p.PriceBase))
	s.Equal(types.MidMonthPolicyManual, p.MidMonthPolicy)
	s.Equal("TKDPRUEBA", p.TrialCouponCode)
}

func (s *PolicyServiceSuite) TestUpdatePolicy() {
	ctx := s.GetContext()

	resp, err := s.service.UpdatePolicy(ctx, dto.UpdatePolicyRequest{
		YellowDaysAfterDue: lo.ToPtr(7),
		TrialCouponCode:    lo.ToPtr("PRUEBA2025"),
	})
	s.Require().NoError(err)
	s.Equal(7, resp.YellowDaysAfterDue)
	s.Zero(resp.RefreshedPeriods)

	stored, err := s.GetStores().PolicyRepo.Get(ctx)
	s.Require().NoError(err)
	s.Equal("PRUEBA2025", stored.TrialCouponCode)

	// served from the cache invalidated by the update
	p, err := s.service.GetPolicy(ctx)
	s.Require().NoError(err)
	s.Equal(7, p.YellowDaysAfterDue)
	s.Equal(policy.DefaultDueDay, p.DueDay)
}

func (s *PolicyServiceSuite) TestUpdatePolicyValidation() {
	ctx := s.GetContext()

	tests := []struct {
		name string
		req  dto.UpdatePolicyRequest
	}{
		{name: "due_day_out_of_range", req: dto.UpdatePolicyRequest{DueDay: lo.ToPtr(32)}},
		{name: "negative_price", req: dto.UpdatePolicyRequest{PriceBase: lo.ToPtr(decimal.NewFromInt(-1))}},
		{name: "percentage_above_100", req: dto.UpdatePolicyRequest{FamilyDiscountPct: lo.ToPtr(decimal.NewFromInt(120))}},
		{name: "bad_mid_month_policy", req: dto.UpdatePolicyRequest{MidMonthPolicy: lo.ToPtr(types.MidMonthPolicy("sometimes"))}},
		{name: "bad_auto_hour", req: dto.UpdatePolicyRequest{AutoHour: lo.ToPtr("25:00")}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.UpdatePolicy(ctx, tt.req)
			s.Require().Error(err)
			s.True(ierr.IsValidation(err), "unexpected error: %v", err)
		})
	}

	_, err := s.GetStores().PolicyRepo.Get(ctx)
	s.True(ierr.IsNotFound(err))
}

func (s *PolicyServiceSuite) TestPoliciesAreTenantScoped() {
	ctx := s.GetContext()
	_, err := s.service.UpdatePolicy(ctx, dto.UpdatePolicyRequest{DueDay: lo.ToPtr(5)})
	s.Require().NoError(err)

	other := types.SetTenantID(ctx, "tenant_other")
	p, err := s.service.GetPolicy(other)
	s.Require().NoError(err)
	s.Equal(policy.DefaultDueDay, p.DueDay)

	ids, err := s.GetStores().PolicyRepo.ListTenantIDs(ctx)
	s.Require().NoError(err)
	s.Equal([]string{types.GetTenantID(ctx)}, ids)
}

func (s *PolicyServiceSuite) TestDefaultPolicyFromConfig() {
	cfg := *s.GetConfig()
	cfg.Billing.DueDay = 5
	cfg.Billing.PriceBase = 30000
	cfg.Reminders.NotificationsDay = 3

	p := DefaultPolicyFromConfig(&cfg)
	s.Equal(5, p.DueDay)
	s.True(decimal.NewFromInt(30000).Equal(p.PriceBase))
	s.Equal(3, p.NotificationsDay)
	s.NoError(p.Validate())

	s.Equal(policy.Default(), DefaultPolicyFromConfig(nil))
}

func (s *PolicyServiceSuite) TestDefaultPolicyFromConfigKeepsZeros() {
	cfg := *s.GetConfig()
	cfg.Billing.YellowDaysAfterDue = 0
	cfg.Billing.NewMemberDiscountPct = 0
	cfg.Billing.FamilyDiscountPct = 0

	p := DefaultPolicyFromConfig(&cfg)
	s.Equal(0, p.YellowDaysAfterDue)
	s.True(p.NewMemberDiscountPct.IsZero(), "got %s", p.NewMemberDiscountPct)
	s.True(p.FamilyDiscountPct.IsZero(), "got %s", p.FamilyDiscountPct)
	s.NoError(p.Validate())

	s.service = NewPolicyService(s.paramsWithConfig(&cfg))
	got, err := s.service.GetPolicy(s.GetContext())
	s.Require().NoError(err)
	s.Equal(0, got.YellowDaysAfterDue)
	s.True(got.FamilyDiscountPct.IsZero())
}

func (s *PolicyServiceSuite) TestGetPolicyRejectsInvalidConfig() {
	cfg := *s.GetConfig()
	cfg.Billing.DueDay = 0

	s.service = NewPolicyService(s.paramsWithConfig(&cfg))
	_, err := s.service.GetPolicy(s.GetContext())
	s.True(ierr.IsValidation(err))
}

func (s *PolicyServiceSuite) paramsWithConfig(cfg *config.Configuration) ServiceParams {
	params := newTestServiceParams(&s.BaseServiceTestSuite)
	params.Config = cfg
	return params
}
