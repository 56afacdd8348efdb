package service

import (
	"context"
	"strings"

	"github.com/dojocycle/dojocycle/internal/api/dto"
	"github.com/dojocycle/dojocycle/internal/domain/billingperiod"
	"github.com/dojocycle/dojocycle/internal/domain/cycle"
	"github.com/dojocycle/dojocycle/internal/domain/member"
	"github.com/dojocycle/dojocycle/internal/domain/policy"
	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/dojocycle/dojocycle/internal/types"
)

type MemberService interface {
	Quote(ctx context.Context, req dto.QuoteRequest) (*dto.QuoteResponse, error)
	Enroll(ctx context.Context, req dto.EnrollMemberRequest, today types.ISODate) (*dto.EnrollMemberResponse, error)
	Renew(ctx context.Context, id string, req dto.RenewMemberRequest, today types.ISODate) (*dto.EnrollMemberResponse, error)
	GetMember(ctx context.Context, id string, today types.ISODate) (*dto.MemberResponse, error)
	ListMembers(ctx context.Context, filter *types.MemberFilter, today types.ISODate) (*dto.ListMembersResponse, error)
	UpdateMember(ctx context.Context, id string, req dto.UpdateMemberRequest, today types.ISODate) (*dto.MemberResponse, error)
	DeactivateMember(ctx context.Context, id string) error
}

type memberService struct {
	ServiceParams
}

func NewMemberService(params ServiceParams) MemberService {
	return &memberService{
		ServiceParams: params,
	}
}

func (s *memberService) Quote(ctx context.Context, req dto.QuoteRequest) (*dto.QuoteResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := NewPolicyService(s.ServiceParams).GetPolicy(ctx)
	if err != nil {
		return nil, err
	}

	quote, err := cycle.ResolvePrice(*p, req.ToPricingInput())
	if err != nil {
		return nil, err
	}
	return &dto.QuoteResponse{Quote: quote}, nil
}

func (s *memberService) Enroll(ctx context.Context, req dto.EnrollMemberRequest, today types.ISODate) (*dto.EnrollMemberResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkClassGroup(ctx, req.ClassGroupID); err != nil {
		return nil, err
	}

	p, err := NewPolicyService(s.ServiceParams).GetPolicy(ctx)
	if err != nil {
		return nil, err
	}

	quote, err := cycle.ResolvePrice(*p, req.ToPricingInput())
	if err != nil {
		return nil, err
	}

	m := req.ToMember(ctx, quote)
	periods := &membershipService{ServiceParams: s.ServiceParams}

	var (
		period  *billingperiod.BillingPeriod
		created bool
	)
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.MemberRepo.Create(ctx, m); err != nil {
			if ierr.IsAlreadyExists(err) {
				return ierr.WithError(err).
					WithHintf("A member with DNI %s is already enrolled", m.ID).
					WithReportableDetails(map[string]any{
						"id": m.ID,
					}).
					Mark(ierr.ErrAlreadyExists)
			}
			return err
		}

		period, created, err = periods.openPeriodFromStart(ctx, m, *p, quote.StartDate, discountsOf(m, req.CouponCode))
		return err
	})
	if err != nil {
		return nil, err
	}

	if created {
		periods.publishPeriodCreated(ctx, period)
	}

	s.Logger.Infow("member enrolled",
		"member_id", m.ID,
		"start_date", quote.StartDate,
		"end_date", quote.EndDate,
		"price_applied", quote.PriceApplied.String(),
		"is_trial", quote.IsTrial,
	)

	s.publishEvent(ctx, types.EventMemberEnrolled, m.ID, types.EnrollmentPayload{
		StartDate:    quote.StartDate,
		EndDate:      quote.EndDate,
		PriceApplied: quote.PriceApplied.String(),
		IsTrial:      quote.IsTrial,
	})

	resp, err := s.toResponse(ctx, m, *p, today)
	if err != nil {
		return nil, err
	}

	return &dto.EnrollMemberResponse{
		Member: resp,
		Quote:  quote,
		Period: dto.NewBillingPeriodResponse(period),
	}, nil
}

func (s *memberService) Renew(ctx context.Context, id string, req dto.RenewMemberRequest, today types.ISODate) (*dto.EnrollMemberResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m, err := s.MemberRepo.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if !m.Active {
		return nil, ierr.NewError("member is inactive").
			WithHintf("Member %s is inactive and cannot be renewed", m.ID).
			Mark(ierr.ErrInvalidOperation)
	}

	p, err := NewPolicyService(s.ServiceParams).GetPolicy(ctx)
	if err != nil {
		return nil, err
	}

	in := req.ToPricingInput(m)
	quote, err := cycle.ResolvePrice(*p, in)
	if err != nil {
		return nil, err
	}

	end := quote.EndDate
	m.StartDate = quote.StartDate
	m.PlanEndDate = &end
	m.PlanTotalClasses = quote.TotalClassDays
	m.IsTrial = quote.IsTrial
	m.IsNewMember = in.IsNewMember
	m.IsFamily = in.IsFamily
	m.ManualDiscountAmount = in.ManualDiscountAmount
	m.PriceApplied = quote.PriceApplied
	m.Touch(ctx)

	periods := &membershipService{ServiceParams: s.ServiceParams}

	var (
		period  *billingperiod.BillingPeriod
		created bool
	)
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.MemberRepo.Update(ctx, m); err != nil {
			return err
		}

		period, created, err = periods.openPeriodFromStart(ctx, m, *p, quote.StartDate, discountsOf(m, req.CouponCode))
		return err
	})
	if err != nil {
		return nil, err
	}

	if created {
		periods.publishPeriodCreated(ctx, period)
	}

	s.Logger.Infow("member renewed",
		"member_id", m.ID,
		"start_date", quote.StartDate,
		"end_date", quote.EndDate,
		"price_applied", quote.PriceApplied.String(),
	)

	s.publishEvent(ctx, types.EventMemberRenewed, m.ID, types.EnrollmentPayload{
		StartDate:    quote.StartDate,
		EndDate:      quote.EndDate,
		PriceApplied: quote.PriceApplied.String(),
		IsTrial:      quote.IsTrial,
	})

	resp, err := s.toResponse(ctx, m, *p, today)
	if err != nil {
		return nil, err
	}

	return &dto.EnrollMemberResponse{
		Member: resp,
		Quote:  quote,
		Period: dto.NewBillingPeriodResponse(period),
	}, nil
}

func (s *memberService) GetMember(ctx context.Context, id string, today types.ISODate) (*dto.MemberResponse, error) {
	m, err := s.MemberRepo.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}

	p, err := NewPolicyService(s.ServiceParams).GetPolicy(ctx)
	if err != nil {
		return nil, err
	}

	return s.toResponse(ctx, m, *p, today)
}

// ListMembers pages through members. A state filter is evaluated here against today, so the
// repository is read unpaginated and the page is cut after filtering.
func (s *memberService) ListMembers(ctx context.Context, filter *types.MemberFilter, today types.ISODate) (*dto.ListMembersResponse, error) {
	if filter == nil {
		filter = types.NewMemberFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	p, err := NewPolicyService(s.ServiceParams).GetPolicy(ctx)
	if err != nil {
		return nil, err
	}

	if filter.State == "" {
		members, err := s.MemberRepo.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		total, err := s.MemberRepo.Count(ctx, filter)
		if err != nil {
			return nil, err
		}

		items := make([]*dto.MemberResponse, 0, len(members))
		for _, m := range members {
			r, err := s.toResponse(ctx, m, *p, today)
			if err != nil {
				return nil, err
			}
			items = append(items, r)
		}
		resp := types.NewListResponse(items, total, filter.GetLimit(), filter.GetOffset())
		return &resp, nil
	}

	unlimited := *filter
	qf := *filter.QueryFilter
	qf.Limit = nil
	qf.Offset = nil
	unlimited.QueryFilter = &qf

	members, err := s.MemberRepo.List(ctx, &unlimited)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.MemberResponse, 0, len(members))
	for _, m := range members {
		r, err := s.toResponse(ctx, m, *p, today)
		if err != nil {
			return nil, err
		}
		if r.MembershipStatus.State == filter.State {
			items = append(items, r)
		}
	}

	total := len(items)
	start := min(filter.GetOffset(), total)
	end := total
	if !filter.IsUnlimited() {
		end = min(start+filter.GetLimit(), total)
	}

	resp := types.NewListResponse(items[start:end], total, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}

func (s *memberService) UpdateMember(ctx context.Context, id string, req dto.UpdateMemberRequest, today types.ISODate) (*dto.MemberResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m, err := s.MemberRepo.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}

	if req.ClassGroupID != nil {
		if err := s.checkClassGroup(ctx, req.ClassGroupID); err != nil {
			return nil, err
		}
	}

	req.Apply(m)
	m.Touch(ctx)
	if err := s.MemberRepo.Update(ctx, m); err != nil {
		return nil, err
	}

	s.Logger.Infow("member updated", "member_id", m.ID)

	p, err := NewPolicyService(s.ServiceParams).GetPolicy(ctx)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, m, *p, today)
}

// DeactivateMember keeps the member and their history but refuses further check-ins.
func (s *memberService) DeactivateMember(ctx context.Context, id string) error {
	m, err := s.MemberRepo.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if !m.Active {
		return nil
	}

	m.Active = false
	m.Touch(ctx)
	if err := s.MemberRepo.Update(ctx, m); err != nil {
		return err
	}

	s.Logger.Infow("member deactivated", "member_id", m.ID)
	return nil
}

// checkClassGroup fails with NotFound when a class group id is given and does not exist.
func (s *memberService) checkClassGroup(ctx context.Context, id *string) error {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil
	}
	_, err := s.ClassGroupRepo.Get(ctx, strings.TrimSpace(*id))
	return err
}

// toResponse attaches the membership status. Members without a plan end are judged by
// their latest period, as check-in and reminders do.
func (s *memberService) toResponse(ctx context.Context, m *member.Member, p policy.BillingPolicy, today types.ISODate) (*dto.MemberResponse, error) {
	end := m.PlanEndDate
	if end == nil || end.IsZero() {
		periods, err := s.BillingPeriodRepo.ListByMember(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		end = effectiveEndDate(m, periods)
	}

	status := cycle.ComputeStatus(end, today, p)
	return &dto.MemberResponse{
		Member:           m,
		MembershipStatus: &status,
	}, nil
}

func discountsOf(m *member.Member, coupon string) billingperiod.Discounts {
	return billingperiod.Discounts{
		IsTrial:              m.IsTrial,
		IsNewMember:          m.IsNewMember,
		IsFamily:             m.IsFamily,
		CouponCode:           strings.TrimSpace(coupon),
		ManualDiscountAmount: m.ManualDiscountAmount,
		PriceApplied:         m.PriceApplied,
	}
}
