package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/dojocycle/dojocycle/internal/domain/member"
	"github.com/dojocycle/dojocycle/internal/logger"
	"github.com/dojocycle/dojocycle/internal/postgres"
	"github.com/dojocycle/dojocycle/internal/types"
)

const memberColumns = `id, tenant_id, first_name, last_name, phone, address, start_date, plan_end_date,
	plan_total_classes, is_trial, is_new_member, is_family, manual_discount_amount, price_applied,
	class_group_id, active, metadata, status, created_at, updated_at, created_by, updated_by`

// memberSortColumns whitelists the columns a listing may be ordered by.
var memberSortColumns = map[string]string{
	"created_at":    "created_at",
	"updated_at":    "updated_at",
	"last_name":     "last_name",
	"first_name":    "first_name",
	"start_date":    "start_date",
	"plan_end_date": "plan_end_date",
}

type memberRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewMemberRepository(db *postgres.DB, logger *logger.Logger) member.Repository {
	return &memberRepository{db: db, logger: logger}
}

func (r *memberRepository) Create(ctx context.Context, m *member.Member) error {
	query := `
		INSERT INTO members (` + memberColumns + `) VALUES (
			:id, :tenant_id, :first_name, :last_name, :phone, :address, :start_date, :plan_end_date,
			:plan_total_classes, :is_trial, :is_new_member, :is_family, :manual_discount_amount, :price_applied,
			:class_group_id, :active, :metadata, :status, :created_at, :updated_at, :created_by, :updated_by
		)
		ON CONFLICT (tenant_id, id) DO NOTHING`

	r.logger.Debugw("creating member",
		"member_id", m.ID,
		"tenant_id", m.TenantID,
	)

	res, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, m)
	return insertError(res, err, "member", map[string]any{"id": m.ID})
}

func (r *memberRepository) Get(ctx context.Context, id string) (*member.Member, error) {
	var m member.Member
	query := `SELECT ` + memberColumns + ` FROM members WHERE tenant_id = $1 AND id = $2 AND status <> $3`

	err := r.db.GetQuerier(ctx).GetContext(ctx, &m, query, types.GetTenantID(ctx), id, types.StatusDeleted)
	if err != nil {
		return nil, getError(err, "member", map[string]any{"id": id})
	}
	return &m, nil
}

func (r *memberRepository) List(ctx context.Context, filter *types.MemberFilter) ([]*member.Member, error) {
	if filter == nil {
		filter = types.NewMemberFilter()
	}

	where, args := r.where(ctx, filter)
	query := `SELECT ` + memberColumns + ` FROM members` + where

	var qf types.QueryFilter
	if filter.QueryFilter != nil {
		qf = *filter.QueryFilter
	}
	column, ok := memberSortColumns[qf.GetSort()]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if qf.GetOrder() == types.OrderAsc {
		direction = "ASC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s, id", column, direction)

	if !qf.IsUnlimited() {
		args = append(args, qf.GetLimit(), qf.GetOffset())
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	var members []*member.Member
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &members, query, args...); err != nil {
		return nil, dbError(err, "failed to list members")
	}
	return members, nil
}

func (r *memberRepository) Count(ctx context.Context, filter *types.MemberFilter) (int, error) {
	if filter == nil {
		filter = types.NewMemberFilter()
	}

	where, args := r.where(ctx, filter)

	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, `SELECT COUNT(*) FROM members`+where, args...); err != nil {
		return 0, dbError(err, "failed to count members")
	}
	return count, nil
}

func (r *memberRepository) where(ctx context.Context, filter *types.MemberFilter) (string, []any) {
	conditions := []string{"tenant_id = $1"}
	args := []any{types.GetTenantID(ctx)}

	add := func(cond string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.QueryFilter != nil && filter.Status != nil {
		add("status = $%d", *filter.Status)
	} else {
		add("status <> $%d", types.StatusDeleted)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		add("(first_name ILIKE $%[1]d OR last_name ILIKE $%[1]d OR id ILIKE $%[1]d)", "%"+s+"%")
	}
	if filter.ClassGroupID != "" {
		add("class_group_id = $%d", filter.ClassGroupID)
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "active")
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *memberRepository) Update(ctx context.Context, m *member.Member) error {
	query := `
		UPDATE members SET
			first_name = :first_name,
			last_name = :last_name,
			phone = :phone,
			address = :address,
			start_date = :start_date,
			plan_end_date = :plan_end_date,
			plan_total_classes = :plan_total_classes,
			is_trial = :is_trial,
			is_new_member = :is_new_member,
			is_family = :is_family,
			manual_discount_amount = :manual_discount_amount,
			price_applied = :price_applied,
			class_group_id = :class_group_id,
			active = :active,
			metadata = :metadata,
			status = :status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id`

	r.logger.Debugw("updating member",
		"member_id", m.ID,
		"active", m.Active,
	)

	res, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, m)
	return updateError(res, err, "member", map[string]any{"id": m.ID})
}
