package service

import (
	"context"
	"strings"

	"github.com/dojocycle/dojocycle/internal/api/dto"
	"github.com/dojocycle/dojocycle/internal/domain/billingperiod"
	"github.com/dojocycle/dojocycle/internal/domain/cycle"
	"github.com/dojocycle/dojocycle/internal/domain/member"
	"github.com/dojocycle/dojocycle/internal/domain/payment"
	"github.com/dojocycle/dojocycle/internal/domain/policy"
	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/samber/lo"
)

// MembershipService owns billing periods and payments: lazy period creation, idempotent
// payment recording and the status of a member on a given day.
type MembershipService interface {
	// GetOrCreatePeriod returns the member's period for key, creating it with due-day
	// anchored bounds when missing. Concurrent callers all get the same stored period.
	GetOrCreatePeriod(ctx context.Context, memberID string, key types.PeriodKey) (*billingperiod.BillingPeriod, error)

	// CreatePeriodFromStart opens the period an enrollment or renewal starting on start falls in.
	CreatePeriodFromStart(ctx context.Context, memberID string, start types.ISODate, discounts billingperiod.Discounts) (*billingperiod.BillingPeriod, error)

	// RecordPayment upserts the payment of (member, year, month) and marks its period paid.
	RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, today types.ISODate) (*dto.PaymentResponse, error)

	// CurrentPeriodFor returns the period containing today with the latest start, or nil.
	CurrentPeriodFor(ctx context.Context, memberID string, today types.ISODate) (*billingperiod.BillingPeriod, error)

	GetStatus(ctx context.Context, memberID string, today types.ISODate) (*dto.MembershipStatusResponse, error)
	ListPeriods(ctx context.Context, memberID string) (*dto.ListBillingPeriodsResponse, error)
	ListPayments(ctx context.Context, memberID string, year int) (*dto.ListPaymentsResponse, error)

	// RefreshUnpaidPeriods recomputes bounds, class days and prices of unpaid periods from the
	// current policy and returns how many changed. Paid periods are never touched.
	RefreshUnpaidPeriods(ctx context.Context) (int, error)
}

type membershipService struct {
	ServiceParams
}

func NewMembershipService(params ServiceParams) MembershipService {
	return &membershipService{
		ServiceParams: params,
	}
}

func (s *membershipService) policy(ctx context.Context) (policy.BillingPolicy, error) {
	p, err := NewPolicyService(s.ServiceParams).GetPolicy(ctx)
	if err != nil {
		return policy.BillingPolicy{}, err
	}
	return *p, nil
}

func (s *membershipService) GetOrCreatePeriod(ctx context.Context, memberID string, key types.PeriodKey) (*billingperiod.BillingPeriod, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.BillingPeriodRepo.GetByKey(ctx, memberID, key); err == nil {
		return existing, nil
	} else if !ierr.IsNotFound(err) {
		return nil, err
	}

	m, err := s.MemberRepo.Get(ctx, memberID)
	if err != nil {
		return nil, err
	}

	p, err := s.policy(ctx)
	if err != nil {
		return nil, err
	}

	period, created, err := s.getOrCreatePeriod(ctx, m, key, cycle.CalcPeriodBounds(key, p.DueDay), p, billingperiod.Discounts{})
	if err != nil {
		return nil, err
	}
	if created {
		s.publishPeriodCreated(ctx, period)
	}
	return period, nil
}

func (s *membershipService) CreatePeriodFromStart(ctx context.Context, memberID string, start types.ISODate, discounts billingperiod.Discounts) (*billingperiod.BillingPeriod, error) {
	if err := start.Validate(); err != nil {
		return nil, err
	}

	m, err := s.MemberRepo.Get(ctx, memberID)
	if err != nil {
		return nil, err
	}

	p, err := s.policy(ctx)
	if err != nil {
		return nil, err
	}

	period, created, err := s.openPeriodFromStart(ctx, m, p, start, discounts)
	if err != nil {
		return nil, err
	}
	if created {
		s.publishPeriodCreated(ctx, period)
	}
	return period, nil
}

// openPeriodFromStart stores the period start falls in without publishing anything, so
// callers running it inside a transaction can publish after the commit.
func (s *membershipService) openPeriodFromStart(
	ctx context.Context,
	m *member.Member,
	p policy.BillingPolicy,
	start types.ISODate,
	discounts billingperiod.Discounts,
) (*billingperiod.BillingPeriod, bool, error) {
	key := cycle.GetPeriodFromDate(start, p.DueDay)
	bounds := cycle.PeriodBounds{
		Start: start,
		End:   cycle.CalcEndFromStart(start, p.DueDay),
	}
	return s.getOrCreatePeriod(ctx, m, key, bounds, p, discounts)
}

// getOrCreatePeriod inserts a new unpaid period unless one exists for (member, key). Losing an
// insert race is not an error: the stored winner is returned with created false.
func (s *membershipService) getOrCreatePeriod(
	ctx context.Context,
	m *member.Member,
	key types.PeriodKey,
	bounds cycle.PeriodBounds,
	p policy.BillingPolicy,
	discounts billingperiod.Discounts,
) (*billingperiod.BillingPeriod, bool, error) {
	if existing, err := s.BillingPeriodRepo.GetByKey(ctx, m.ID, key); err == nil {
		return existing, false, nil
	} else if !ierr.IsNotFound(err) {
		return nil, false, err
	}

	period := &billingperiod.BillingPeriod{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_BILLING_PERIOD),
		MemberID:       m.ID,
		PeriodKey:      key,
		StartDate:      bounds.Start,
		EndDate:        bounds.End,
		TotalClassDays: bounds.ClassDays(),
		PriceBase:      p.PriceBase,
		PriceFinal:     p.PriceBase,
		Discounts:      discounts,
		ClassGroupID:   m.ClassGroupID,
		PeriodStatus:   types.PeriodStatusUnpaid,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}

	if err := s.BillingPeriodRepo.Create(ctx, period); err != nil {
		if !ierr.IsAlreadyExists(err) {
			return nil, false, err
		}

		s.Logger.Debugw("billing period created concurrently, using stored one",
			"member_id", m.ID,
			"period", key.String(),
		)
		existing, err := s.BillingPeriodRepo.GetByKey(ctx, m.ID, key)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	s.Logger.Infow("billing period created",
		"member_id", m.ID,
		"period", key.String(),
		"start_date", period.StartDate,
		"end_date", period.EndDate,
	)
	return period, true, nil
}

func (s *membershipService) RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, today types.ISODate) (*dto.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.MemberID = strings.TrimSpace(req.MemberID)

	m, err := s.MemberRepo.Get(ctx, req.MemberID)
	if err != nil {
		return nil, err
	}

	p, err := s.policy(ctx)
	if err != nil {
		return nil, err
	}

	key := req.Key()
	var (
		resp          *dto.PaymentResponse
		periodCreated bool
	)

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		pay, created, err := s.upsertPayment(ctx, req, p.Currency, today)
		if err != nil {
			return err
		}

		period, newPeriod, err := s.getOrCreatePeriod(ctx, m, key, cycle.CalcPeriodBounds(key, p.DueDay), p, billingperiod.Discounts{})
		if err != nil {
			return err
		}
		periodCreated = newPeriod

		period.PaymentID = lo.ToPtr(pay.ID)
		period.PeriodStatus = types.PeriodStatusPaid
		period.Touch(ctx)
		if err := s.BillingPeriodRepo.Update(ctx, period); err != nil {
			return err
		}

		resp = &dto.PaymentResponse{
			Payment: pay,
			Period:  dto.NewBillingPeriodResponse(period),
			Created: created,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("payment recorded",
		"member_id", m.ID,
		"period", key.String(),
		"payment_id", resp.ID,
		"amount", resp.Amount.String(),
		"created", resp.Created,
	)

	if periodCreated {
		s.publishPeriodCreated(ctx, resp.Period.BillingPeriod)
	}
	s.publishEvent(ctx, types.EventPaymentRecorded, m.ID, types.PaymentRecordedPayload{
		PaymentID:     resp.ID,
		Period:        key.String(),
		Amount:        resp.Amount.String(),
		Currency:      resp.Currency,
		Method:        resp.Method,
		ReceiptNumber: resp.ReceiptNumber,
		PaidOn:        resp.PaidOn,
		Created:       resp.Created,
	})

	return resp, nil
}

// upsertPayment updates the payment stored for the request's key or creates one.
func (s *membershipService) upsertPayment(ctx context.Context, req dto.RecordPaymentRequest, currency string, today types.ISODate) (*payment.Payment, bool, error) {
	update := func(existing *payment.Payment) (*payment.Payment, bool, error) {
		req.Apply(existing, currency, today)
		existing.Touch(ctx)
		if err := s.PaymentRepo.Update(ctx, existing); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	existing, err := s.PaymentRepo.GetByKey(ctx, req.MemberID, req.Key())
	if err == nil {
		return update(existing)
	}
	if !ierr.IsNotFound(err) {
		return nil, false, err
	}

	pay := req.ToPayment(ctx, currency, today)
	if err := s.PaymentRepo.Create(ctx, pay); err != nil {
		if !ierr.IsAlreadyExists(err) {
			return nil, false, err
		}
		existing, err := s.PaymentRepo.GetByKey(ctx, req.MemberID, req.Key())
		if err != nil {
			return nil, false, err
		}
		return update(existing)
	}
	return pay, true, nil
}

func (s *membershipService) CurrentPeriodFor(ctx context.Context, memberID string, today types.ISODate) (*billingperiod.BillingPeriod, error) {
	periods, err := s.BillingPeriodRepo.ListByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return currentPeriod(periods, today), nil
}

func currentPeriod(periods []*billingperiod.BillingPeriod, today types.ISODate) *billingperiod.BillingPeriod {
	var current *billingperiod.BillingPeriod
	for _, p := range periods {
		if !p.Bounds().Contains(today) {
			continue
		}
		if current == nil || p.StartDate.After(current.StartDate) {
			current = p
		}
	}
	return current
}

func (s *membershipService) GetStatus(ctx context.Context, memberID string, today types.ISODate) (*dto.MembershipStatusResponse, error) {
	if err := today.Validate(); err != nil {
		return nil, err
	}

	p, err := s.policy(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.MembershipStatusResponse{
		MemberID: memberID,
		Today:    today,
	}

	m, err := s.MemberRepo.Get(ctx, memberID)
	if err != nil {
		if !ierr.IsNotFound(err) {
			return nil, err
		}
		resp.MembershipStatus = cycle.ComputeStatus(nil, today, p)
		return resp, nil
	}

	periods, err := s.BillingPeriodRepo.ListByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	resp.MembershipStatus = cycle.ComputeStatus(effectiveEndDate(m, periods), today, p)
	resp.CurrentPeriod = dto.NewBillingPeriodResponse(currentPeriod(periods, today))
	return resp, nil
}

// effectiveEndDate is the member's plan end, falling back to the latest period end.
func effectiveEndDate(m *member.Member, periods []*billingperiod.BillingPeriod) *types.ISODate {
	if m.PlanEndDate != nil && !m.PlanEndDate.IsZero() {
		return m.PlanEndDate
	}

	var end *types.ISODate
	for _, p := range periods {
		if end == nil || p.EndDate.After(*end) {
			e := p.EndDate
			end = &e
		}
	}
	return end
}

func (s *membershipService) ListPeriods(ctx context.Context, memberID string) (*dto.ListBillingPeriodsResponse, error) {
	if _, err := s.MemberRepo.Get(ctx, memberID); err != nil {
		return nil, err
	}

	periods, err := s.BillingPeriodRepo.ListByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	items := lo.Map(periods, func(p *billingperiod.BillingPeriod, _ int) *dto.BillingPeriodResponse {
		return dto.NewBillingPeriodResponse(p)
	})
	resp := types.NewListResponse(items, len(items), 0, 0)
	return &resp, nil
}

func (s *membershipService) ListPayments(ctx context.Context, memberID string, year int) (*dto.ListPaymentsResponse, error) {
	if year < 0 {
		return nil, ierr.NewError("invalid year").
			WithHint("Year must be positive").
			Mark(ierr.ErrValidation)
	}
	if _, err := s.MemberRepo.Get(ctx, memberID); err != nil {
		return nil, err
	}

	payments, err := s.PaymentRepo.ListByMember(ctx, memberID, year)
	if err != nil {
		return nil, err
	}

	items := lo.Map(payments, func(p *payment.Payment, _ int) *dto.PaymentResponse {
		return &dto.PaymentResponse{Payment: p}
	})
	resp := types.NewListResponse(items, len(items), 0, 0)
	return &resp, nil
}

func (s *membershipService) RefreshUnpaidPeriods(ctx context.Context) (int, error) {
	p, err := s.policy(ctx)
	if err != nil {
		return 0, err
	}

	periods, err := s.BillingPeriodRepo.ListUnpaid(ctx)
	if err != nil {
		return 0, err
	}

	refreshed := 0
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		for _, period := range periods {
			if !refreshPeriod(period, p) {
				continue
			}
			period.Touch(ctx)
			if err := s.BillingPeriodRepo.Update(ctx, period); err != nil {
				return err
			}
			refreshed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.Logger.Infow("refreshed unpaid billing periods",
		"tenant_id", types.GetTenantID(ctx),
		"unpaid", len(periods),
		"refreshed", refreshed,
	)
	return refreshed, nil
}

// refreshPeriod recomputes the derived fields of an unpaid period and reports whether any
// changed. Due-day anchored periods get the new due-day bounds; periods opened by an
// enrollment keep their start and move their end to the new due day.
func refreshPeriod(period *billingperiod.BillingPeriod, p policy.BillingPolicy) bool {
	if period.IsPaid() {
		return false
	}

	bounds := cycle.CalcPeriodBounds(period.PeriodKey, p.DueDay)
	if !isDueAnchored(period) {
		bounds = cycle.PeriodBounds{
			Start: period.StartDate,
			End:   cycle.CalcEndFromStart(period.StartDate, p.DueDay),
		}
	}
	classDays := bounds.ClassDays()

	changed := period.StartDate != bounds.Start ||
		period.EndDate != bounds.End ||
		period.TotalClassDays != classDays ||
		!period.PriceBase.Equal(p.PriceBase) ||
		!period.PriceFinal.Equal(p.PriceBase)

	period.StartDate = bounds.Start
	period.EndDate = bounds.End
	period.TotalClassDays = classDays
	period.PriceBase = p.PriceBase
	period.PriceFinal = p.PriceBase
	return changed
}

// isDueAnchored reports whether the period's bounds are CalcPeriodBounds of its key for some
// due day. A period ending on the last day of a month matches every due day past it.
func isDueAnchored(period *billingperiod.BillingPeriod) bool {
	end := period.EndDate
	if end.Year() != period.Year || end.Month() != period.Month {
		return false
	}

	last := end.Day()
	if last == types.DaysInMonth(end.Year(), end.Month()) {
		last = 31
	}
	for due := end.Day(); due <= last; due++ {
		if cycle.CalcPeriodBounds(period.PeriodKey, due) == period.Bounds() {
			return true
		}
	}
	return false
}

func (s *membershipService) publishPeriodCreated(ctx context.Context, period *billingperiod.BillingPeriod) {
	s.publishEvent(ctx, types.EventPeriodCreated, period.MemberID, types.PeriodCreatedPayload{
		PeriodID:  period.ID,
		Period:    period.PeriodKey.String(),
		StartDate: period.StartDate,
		EndDate:   period.EndDate,
	})
}
