package postgres

import (
	"context"

	"github.com/dojocycle/dojocycle/internal/domain/notification"
	"github.com/dojocycle/dojocycle/internal/logger"
	"github.com/dojocycle/dojocycle/internal/postgres"
	"github.com/dojocycle/dojocycle/internal/types"
)

const notificationColumns = `id, tenant_id, period_key, member_id, kind, phone, template, result, error,
	provider_message_id, attempted_at, status, created_at, updated_at, created_by, updated_by`

type notificationRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewNotificationRepository(db *postgres.DB, logger *logger.Logger) notification.Repository {
	return &notificationRepository{db: db, logger: logger}
}

// Create stores an attempt. A second sent row for the same period, member and kind violates
// the partial unique index and surfaces as ErrAlreadyExists.
func (r *notificationRepository) Create(ctx context.Context, l *notification.Log) error {
	query := `
		INSERT INTO notification_logs (` + notificationColumns + `) VALUES (
			:id, :tenant_id, :period_key, :member_id, :kind, :phone, :template, :result, :error,
			:provider_message_id, :attempted_at, :status, :created_at, :updated_at, :created_by, :updated_by
		)`

	res, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, l)
	return insertError(res, err, "notification log", map[string]any{
		"period":    l.PeriodKey,
		"member_id": l.MemberID,
	})
}

func (r *notificationRepository) ListByPeriod(ctx context.Context, period string) ([]*notification.Log, error) {
	var logs []*notification.Log
	query := `SELECT ` + notificationColumns + ` FROM notification_logs
		WHERE tenant_id = $1 AND period_key = $2
		ORDER BY attempted_at, id`

	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &logs, query, types.GetTenantID(ctx), period); err != nil {
		return nil, dbError(err, "failed to list notification logs")
	}
	return logs, nil
}

func (r *notificationRepository) SentMemberIDs(ctx context.Context, period string, kind types.NotificationKind) ([]string, error) {
	var ids []string
	query := `SELECT DISTINCT member_id FROM notification_logs
		WHERE tenant_id = $1 AND period_key = $2 AND kind = $3 AND result = $4`

	err := r.db.GetQuerier(ctx).SelectContext(ctx, &ids, query,
		types.GetTenantID(ctx), period, kind, types.NotificationStatusSent)
	if err != nil {
		return nil, dbError(err, "failed to list notified members")
	}
	return ids, nil
}
