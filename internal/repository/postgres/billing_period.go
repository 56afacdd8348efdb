package postgres

import (
	"context"

	"github.com/dojocycle/dojocycle/internal/domain/billingperiod"
	"github.com/dojocycle/dojocycle/internal/logger"
	"github.com/dojocycle/dojocycle/internal/postgres"
	"github.com/dojocycle/dojocycle/internal/types"
)

const billingPeriodColumns = `id, tenant_id, member_id, period_year, period_month, start_date, end_date,
	total_class_days, price_base, price_final, discounts, payment_id, class_group_id, period_status,
	status, created_at, updated_at, created_by, updated_by`

type billingPeriodRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewBillingPeriodRepository(db *postgres.DB, logger *logger.Logger) billingperiod.Repository {
	return &billingPeriodRepository{db: db, logger: logger}
}

func (r *billingPeriodRepository) Create(ctx context.Context, p *billingperiod.BillingPeriod) error {
	query := `
		INSERT INTO billing_periods (` + billingPeriodColumns + `) VALUES (
			:id, :tenant_id, :member_id, :period_year, :period_month, :start_date, :end_date,
			:total_class_days, :price_base, :price_final, :discounts, :payment_id, :class_group_id, :period_status,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)
		ON CONFLICT (tenant_id, member_id, period_year, period_month) DO NOTHING`

	r.logger.Debugw("creating billing period",
		"member_id", p.MemberID,
		"period", p.PeriodKey.String(),
	)

	res, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, p)
	return insertError(res, err, "billing period", map[string]any{
		"member_id": p.MemberID,
		"period":    p.PeriodKey.String(),
	})
}

func (r *billingPeriodRepository) Get(ctx context.Context, id string) (*billingperiod.BillingPeriod, error) {
	var p billingperiod.BillingPeriod
	query := `SELECT ` + billingPeriodColumns + ` FROM billing_periods WHERE tenant_id = $1 AND id = $2`

	if err := r.db.GetQuerier(ctx).GetContext(ctx, &p, query, types.GetTenantID(ctx), id); err != nil {
		return nil, getError(err, "billing period", map[string]any{"id": id})
	}
	return &p, nil
}

func (r *billingPeriodRepository) GetByKey(ctx context.Context, memberID string, key types.PeriodKey) (*billingperiod.BillingPeriod, error) {
	var p billingperiod.BillingPeriod
	query := `SELECT ` + billingPeriodColumns + ` FROM billing_periods
		WHERE tenant_id = $1 AND member_id = $2 AND period_year = $3 AND period_month = $4`

	err := r.db.GetQuerier(ctx).GetContext(ctx, &p, query, types.GetTenantID(ctx), memberID, key.Year, int(key.Month))
	if err != nil {
		return nil, getError(err, "billing period", map[string]any{
			"member_id": memberID,
			"period":    key.String(),
		})
	}
	return &p, nil
}

func (r *billingPeriodRepository) ListByMember(ctx context.Context, memberID string) ([]*billingperiod.BillingPeriod, error) {
	var periods []*billingperiod.BillingPeriod
	query := `SELECT ` + billingPeriodColumns + ` FROM billing_periods
		WHERE tenant_id = $1 AND member_id = $2
		ORDER BY period_year DESC, period_month DESC`

	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &periods, query, types.GetTenantID(ctx), memberID); err != nil {
		return nil, dbError(err, "failed to list billing periods")
	}
	return periods, nil
}

func (r *billingPeriodRepository) ListUnpaid(ctx context.Context) ([]*billingperiod.BillingPeriod, error) {
	var periods []*billingperiod.BillingPeriod
	query := `SELECT ` + billingPeriodColumns + ` FROM billing_periods
		WHERE tenant_id = $1 AND period_status = $2
		ORDER BY period_year, period_month, member_id`

	err := r.db.GetQuerier(ctx).SelectContext(ctx, &periods, query, types.GetTenantID(ctx), types.PeriodStatusUnpaid)
	if err != nil {
		return nil, dbError(err, "failed to list unpaid billing periods")
	}
	return periods, nil
}

func (r *billingPeriodRepository) Update(ctx context.Context, p *billingperiod.BillingPeriod) error {
	query := `
		UPDATE billing_periods SET
			start_date = :start_date,
			end_date = :end_date,
			total_class_days = :total_class_days,
			price_base = :price_base,
			price_final = :price_final,
			payment_id = :payment_id,
			period_status = :period_status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id`

	r.logger.Debugw("updating billing period",
		"billing_period_id", p.ID,
		"period_status", p.PeriodStatus,
	)

	res, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, p)
	return updateError(res, err, "billing period", map[string]any{"id": p.ID})
}
