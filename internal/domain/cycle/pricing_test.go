package cycle

import (
	"testing"

	"github.com/dojocycle/dojocycle/internal/domain/policy"
	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type PricingSuite struct {
	suite.Suite
	policy policy.BillingPolicy
}

func TestPricing(t *testing.T) {
	suite.Run(t, new(PricingSuite))
}

func (s *PricingSuite) SetupTest() {
	s.policy = policy.Default()
}

func (s *PricingSuite) resolve(in PricingInput) *Quote {
	q, err := ResolvePrice(s.policy, in)
	s.Require().NoError(err)
	return q
}

func (s *PricingSuite) TestDiscountsCompound() {
	s.policy.PriceBase = decimal.NewFromInt(1000)

	q := s.resolve(PricingInput{StartDate: "2024-01-05", IsNewMember: true, IsFamily: true})

	s.Equal("720", q.PriceApplied.String())
	s.NotEqual("700", q.PriceApplied.String())
	s.Len(q.Adjustments, 2)
	s.Equal(AdjustmentNewMember, q.Adjustments[0].Kind)
	s.Equal("900", q.Adjustments[0].PriceAfter.String())
	s.Equal(AdjustmentFamily, q.Adjustments[1].Kind)
}

func (s *PricingSuite) TestEachStageRounds() {
	s.policy.PriceBase = decimal.NewFromInt(999)

	q := s.resolve(PricingInput{StartDate: "2024-01-05", IsNewMember: true, IsFamily: true})

	// 999 * 0.9 = 899.1 -> 899, 899 * 0.8 = 719.2 -> 719
	s.Equal("899", q.Adjustments[0].PriceAfter.String())
	s.Equal("719", q.PriceApplied.String())
}

func (s *PricingSuite) TestInWindow() {
	q := s.resolve(PricingInput{StartDate: "2024-01-05"})

	s.Equal(types.ISODate("2024-02-05"), q.EndDate)
	s.Equal(27, q.TotalClassDays)
	s.False(q.IsOutOfWindow)
	s.Nil(q.SuggestedProratedPrice)
	s.Nil(q.SuggestedManualDiscount)
	s.Equal("25000", q.PriceApplied.String())
	s.Equal("ARS", q.Currency)
}

func (s *PricingSuite) TestOutOfWindowManualPolicy() {
	q := s.resolve(PricingInput{StartDate: "2024-01-20"})

	s.Equal(types.ISODate("2024-02-10"), q.EndDate)
	s.Equal(19, q.TotalClassDays)
	s.True(q.IsOutOfWindow)
	s.Require().NotNil(q.SuggestedProratedPrice)
	s.Equal("17593", q.SuggestedProratedPrice.String())
	s.Equal("7407", q.SuggestedManualDiscount.String())
	s.Equal("25000", q.PriceApplied.String())

	// the operator applies the suggestion as a manual discount
	q = s.resolve(PricingInput{StartDate: "2024-01-20", ManualDiscountAmount: *q.SuggestedManualDiscount})
	s.Equal("17593", q.PriceApplied.String())
}

func (s *PricingSuite) TestOutOfWindowProratePolicy() {
	s.policy.MidMonthPolicy = types.MidMonthPolicyProrate

	q := s.resolve(PricingInput{
		StartDate:            "2024-01-20",
		IsNewMember:          true,
		IsFamily:             true,
		ManualDiscountAmount: decimal.NewFromInt(5000),
	})

	s.Equal("17593", q.PriceBeforeDiscounts.String())
	// 17593 * 0.9 = 15833.7 -> 15834, 15834 * 0.8 = 12667.2 -> 12667; manual is ignored
	s.Equal("12667", q.PriceApplied.String())
	s.Equal([]AdjustmentKind{AdjustmentProration, AdjustmentNewMember, AdjustmentFamily},
		lo.Map(q.Adjustments, func(a Adjustment, _ int) AdjustmentKind { return a.Kind }))
}

func (s *PricingSuite) TestManualDiscountFloorsAtZero() {
	q := s.resolve(PricingInput{StartDate: "2024-01-05", ManualDiscountAmount: decimal.NewFromInt(999999)})
	s.True(q.PriceApplied.IsZero())
	s.Equal("25000", q.Adjustments[0].Amount.String())
}

func (s *PricingSuite) TestTrialTakesPrecedence() {
	for _, code := range []string{"TKDPRUEBA", "tkdprueba", "  TkdPrueba "} {
		q := s.resolve(PricingInput{
			StartDate:            "2024-01-20",
			CouponCode:           code,
			IsNewMember:          true,
			IsFamily:             true,
			ManualDiscountAmount: decimal.NewFromInt(100),
		})

		s.True(q.IsTrial, code)
		s.True(q.PriceApplied.IsZero(), code)
		s.Equal(types.ISODate("2024-01-21"), q.EndDate)
		s.Equal(1, q.TotalClassDays)
		s.False(q.IsOutOfWindow)
		s.Nil(q.SuggestedProratedPrice)
		s.Len(q.Adjustments, 1)
	}
}

func (s *PricingSuite) TestTrialLength() {
	s.policy.TrialDays = 0
	q := s.resolve(PricingInput{StartDate: "2024-01-31", CouponCode: "TKDPRUEBA"})
	s.Equal(types.ISODate("2024-02-01"), q.EndDate)

	s.policy.TrialDays = 3
	q = s.resolve(PricingInput{StartDate: "2024-12-30", CouponCode: "TKDPRUEBA"})
	s.Equal(types.ISODate("2025-01-02"), q.EndDate)
}

func (s *PricingSuite) TestWrongCouponIsIgnored() {
	q := s.resolve(PricingInput{StartDate: "2024-01-05", CouponCode: "TKDPRUEBA2"})
	s.False(q.IsTrial)
	s.Equal("25000", q.PriceApplied.String())
}

func (s *PricingSuite) TestZeroPercentSkipsStage() {
	s.policy.NewMemberDiscountPct = decimal.Zero
	q := s.resolve(PricingInput{StartDate: "2024-01-05", IsNewMember: true})
	s.Empty(q.Adjustments)
}

func TestResolvePrice_InvalidInput(t *testing.T) {
	_, err := ResolvePrice(policy.Default(), PricingInput{StartDate: "2024-13-01"})
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))

	_, err = ResolvePrice(policy.Default(), PricingInput{
		StartDate:            "2024-01-05",
		ManualDiscountAmount: decimal.NewFromInt(-1),
	})
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}
