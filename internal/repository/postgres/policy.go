package postgres

import (
	"context"
	"time"

	"github.com/dojocycle/dojocycle/internal/domain/policy"
	"github.com/dojocycle/dojocycle/internal/logger"
	"github.com/dojocycle/dojocycle/internal/postgres"
	"github.com/dojocycle/dojocycle/internal/types"
)

const policyColumns = `due_day, window_end_day, yellow_days_after_due, grace_days_after_due,
	price_base, currency, new_member_discount_pct, family_discount_pct, mid_month_policy,
	trial_coupon_code, trial_days, notifications_day, auto_hour`

// policyRow is a billing policy as stored: one row per tenant.
type policyRow struct {
	TenantID string `db:"tenant_id"`
	policy.BillingPolicy
	UpdatedAt time.Time `db:"updated_at"`
	UpdatedBy string    `db:"updated_by"`
}

type policyRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewPolicyRepository(db *postgres.DB, logger *logger.Logger) policy.Repository {
	return &policyRepository{db: db, logger: logger}
}

func (r *policyRepository) Get(ctx context.Context) (*policy.BillingPolicy, error) {
	var p policy.BillingPolicy
	query := `SELECT ` + policyColumns + ` FROM billing_policies WHERE tenant_id = $1`

	tenantID := types.GetTenantID(ctx)
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &p, query, tenantID); err != nil {
		return nil, getError(err, "billing policy", map[string]any{"tenant_id": tenantID})
	}
	return &p, nil
}

func (r *policyRepository) Upsert(ctx context.Context, p *policy.BillingPolicy) error {
	query := `
		INSERT INTO billing_policies (tenant_id, ` + policyColumns + `, updated_at, updated_by) VALUES (
			:tenant_id, :due_day, :window_end_day, :yellow_days_after_due, :grace_days_after_due,
			:price_base, :currency, :new_member_discount_pct, :family_discount_pct, :mid_month_policy,
			:trial_coupon_code, :trial_days, :notifications_day, :auto_hour, :updated_at, :updated_by
		)
		ON CONFLICT (tenant_id) DO UPDATE SET
			due_day = EXCLUDED.due_day,
			window_end_day = EXCLUDED.window_end_day,
			yellow_days_after_due = EXCLUDED.yellow_days_after_due,
			grace_days_after_due = EXCLUDED.grace_days_after_due,
			price_base = EXCLUDED.price_base,
			currency = EXCLUDED.currency,
			new_member_discount_pct = EXCLUDED.new_member_discount_pct,
			family_discount_pct = EXCLUDED.family_discount_pct,
			mid_month_policy = EXCLUDED.mid_month_policy,
			trial_coupon_code = EXCLUDED.trial_coupon_code,
			trial_days = EXCLUDED.trial_days,
			notifications_day = EXCLUDED.notifications_day,
			auto_hour = EXCLUDED.auto_hour,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by`

	row := policyRow{
		TenantID:      types.GetTenantID(ctx),
		BillingPolicy: *p,
		UpdatedAt:     time.Now().UTC(),
		UpdatedBy:     types.GetUserID(ctx),
	}

	r.logger.Debugw("saving billing policy",
		"tenant_id", row.TenantID,
		"due_day", p.DueDay,
		"price_base", p.PriceBase.String(),
	)

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, row); err != nil {
		return dbError(err, "failed to save billing policy")
	}
	return nil
}

func (r *policyRepository) ListTenantIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &ids, `SELECT tenant_id FROM billing_policies ORDER BY tenant_id`); err != nil {
		return nil, dbError(err, "failed to list tenants")
	}
	return ids, nil
}
