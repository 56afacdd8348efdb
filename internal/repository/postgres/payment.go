package postgres

import (
	"context"

	"github.com/dojocycle/dojocycle/internal/domain/payment"
	"github.com/dojocycle/dojocycle/internal/logger"
	"github.com/dojocycle/dojocycle/internal/postgres"
	"github.com/dojocycle/dojocycle/internal/types"
)

const paymentColumns = `id, tenant_id, member_id, period_year, period_month, amount, currency, method,
	paid_on, receipt, receipt_number, status, created_at, updated_at, created_by, updated_by`

type paymentRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewPaymentRepository(db *postgres.DB, logger *logger.Logger) payment.Repository {
	return &paymentRepository{db: db, logger: logger}
}

func (r *paymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `) VALUES (
			:id, :tenant_id, :member_id, :period_year, :period_month, :amount, :currency, :method,
			:paid_on, :receipt, :receipt_number, :status, :created_at, :updated_at, :created_by, :updated_by
		)
		ON CONFLICT (tenant_id, member_id, period_year, period_month) DO NOTHING`

	r.logger.Debugw("creating payment",
		"member_id", p.MemberID,
		"period", p.PeriodKey.String(),
		"amount", p.Amount.String(),
	)

	res, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, p)
	return insertError(res, err, "payment", map[string]any{
		"member_id": p.MemberID,
		"period":    p.PeriodKey.String(),
	})
}

func (r *paymentRepository) Get(ctx context.Context, id string) (*payment.Payment, error) {
	var p payment.Payment
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE tenant_id = $1 AND id = $2`

	if err := r.db.GetQuerier(ctx).GetContext(ctx, &p, query, types.GetTenantID(ctx), id); err != nil {
		return nil, getError(err, "payment", map[string]any{"id": id})
	}
	return &p, nil
}

func (r *paymentRepository) GetByKey(ctx context.Context, memberID string, key types.PeriodKey) (*payment.Payment, error) {
	var p payment.Payment
	query := `SELECT ` + paymentColumns + ` FROM payments
		WHERE tenant_id = $1 AND member_id = $2 AND period_year = $3 AND period_month = $4`

	err := r.db.GetQuerier(ctx).GetContext(ctx, &p, query, types.GetTenantID(ctx), memberID, key.Year, int(key.Month))
	if err != nil {
		return nil, getError(err, "payment", map[string]any{
			"member_id": memberID,
			"period":    key.String(),
		})
	}
	return &p, nil
}

func (r *paymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	query := `
		UPDATE payments SET
			amount = :amount,
			currency = :currency,
			method = :method,
			paid_on = :paid_on,
			receipt = :receipt,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id`

	r.logger.Debugw("updating payment",
		"payment_id", p.ID,
		"amount", p.Amount.String(),
	)

	res, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, p)
	return updateError(res, err, "payment", map[string]any{"id": p.ID})
}

func (r *paymentRepository) ListByMember(ctx context.Context, memberID string, year int) ([]*payment.Payment, error) {
	var payments []*payment.Payment
	query := `SELECT ` + paymentColumns + ` FROM payments
		WHERE tenant_id = $1 AND member_id = $2 AND ($3 = 0 OR period_year = $3)
		ORDER BY period_year, period_month`

	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &payments, query, types.GetTenantID(ctx), memberID, year); err != nil {
		return nil, dbError(err, "failed to list payments")
	}
	return payments, nil
}
