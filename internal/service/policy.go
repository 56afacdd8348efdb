package service

import (
	"context"

	"github.com/dojocycle/dojocycle/internal/api/dto"
	"github.com/dojocycle/dojocycle/internal/cache"
	"github.com/dojocycle/dojocycle/internal/config"
	"github.com/dojocycle/dojocycle/internal/domain/policy"
	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/shopspring/decimal"
)

// PolicyService reads and updates the billing policy of the tenant in context.
type PolicyService interface {
	// GetPolicy returns the stored policy, or the configured default when the tenant has none.
	GetPolicy(ctx context.Context) (*policy.BillingPolicy, error)
	UpdatePolicy(ctx context.Context, req dto.UpdatePolicyRequest) (*dto.PolicyResponse, error)
}

type policyService struct {
	ServiceParams
}

func NewPolicyService(params ServiceParams) PolicyService {
	return &policyService{
		ServiceParams: params,
	}
}

func (s *policyService) GetPolicy(ctx context.Context) (*policy.BillingPolicy, error) {
	key := cache.GenerateKey(cache.PrefixBillingPolicy, types.GetTenantID(ctx))
	if cached, ok := s.Cache.Get(ctx, key); ok {
		if p, ok := cached.(policy.BillingPolicy); ok {
			return &p, nil
		}
	}

	p, err := s.PolicyRepo.Get(ctx)
	if err != nil {
		if !ierr.IsNotFound(err) {
			return nil, err
		}
		def := DefaultPolicyFromConfig(s.Config)
		if err := def.Validate(); err != nil {
			return nil, ierr.WithError(err).
				WithMessage("billing section of the configuration is invalid").
				Mark(ierr.ErrValidation)
		}
		p = &def
	}

	s.Cache.Set(ctx, key, *p, 0)
	return p, nil
}

func (s *policyService) UpdatePolicy(ctx context.Context, req dto.UpdatePolicyRequest) (*dto.PolicyResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	current, err := s.GetPolicy(ctx)
	if err != nil {
		return nil, err
	}

	next := req.Apply(*current)
	if err := next.Validate(); err != nil {
		return nil, err
	}

	if err := s.PolicyRepo.Upsert(ctx, &next); err != nil {
		return nil, err
	}
	s.Cache.Delete(ctx, cache.GenerateKey(cache.PrefixBillingPolicy, types.GetTenantID(ctx)))

	s.Logger.Infow("billing policy updated",
		"tenant_id", types.GetTenantID(ctx),
		"due_day", next.DueDay,
		"price_base", next.PriceBase.String(),
		"mid_month_policy", next.MidMonthPolicy,
	)

	resp := &dto.PolicyResponse{BillingPolicy: next}
	if current.AffectsPeriods(next) {
		refreshed, err := NewMembershipService(s.ServiceParams).RefreshUnpaidPeriods(ctx)
		if err != nil {
			return nil, err
		}
		resp.RefreshedPeriods = refreshed
	}
	return resp, nil
}

// DefaultPolicyFromConfig builds the policy tenants start with from the billing and
// reminders sections. Values are copied as loaded, zeros included; viper has already
// filled in the defaults for keys the operator left out.
func DefaultPolicyFromConfig(cfg *config.Configuration) policy.BillingPolicy {
	p := policy.Default()
	if cfg == nil {
		return p
	}

	b := cfg.Billing
	p.DueDay = b.DueDay
	p.WindowEndDay = b.WindowEndDay
	p.YellowDaysAfterDue = b.YellowDaysAfterDue
	p.GraceDaysAfterDue = b.GraceDaysAfterDue
	p.PriceBase = decimal.NewFromFloat(b.PriceBase)
	p.Currency = b.Currency
	p.NewMemberDiscountPct = decimal.NewFromFloat(b.NewMemberDiscountPct)
	p.FamilyDiscountPct = decimal.NewFromFloat(b.FamilyDiscountPct)
	p.MidMonthPolicy = types.MidMonthPolicy(b.MidMonthPolicy)
	p.TrialCouponCode = b.TrialCouponCode
	p.TrialDays = b.TrialDays

	r := cfg.Reminders
	p.NotificationsDay = r.NotificationsDay
	p.AutoHour = r.AutoHour
	return p
}
