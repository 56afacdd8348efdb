package postgres

import (
	"context"

	"github.com/dojocycle/dojocycle/internal/domain/attendance"
	"github.com/dojocycle/dojocycle/internal/logger"
	"github.com/dojocycle/dojocycle/internal/postgres"
	"github.com/dojocycle/dojocycle/internal/types"
)

const attendanceColumns = `id, tenant_id, member_id, attended_on, dismissed,
	status, created_at, updated_at, created_by, updated_by`

type attendanceRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewAttendanceRepository(db *postgres.DB, logger *logger.Logger) attendance.Repository {
	return &attendanceRepository{db: db, logger: logger}
}

func (r *attendanceRepository) Create(ctx context.Context, a *attendance.Attendance) error {
	query := `
		INSERT INTO attendances (` + attendanceColumns + `) VALUES (
			:id, :tenant_id, :member_id, :attended_on, :dismissed,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)
		ON CONFLICT (tenant_id, member_id, attended_on) DO NOTHING`

	r.logger.Debugw("recording attendance",
		"member_id", a.MemberID,
		"date", a.Date,
	)

	res, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, a)
	return insertError(res, err, "attendance", map[string]any{
		"member_id": a.MemberID,
		"date":      a.Date,
	})
}

func (r *attendanceRepository) GetByMemberDate(ctx context.Context, memberID string, date types.ISODate) (*attendance.Attendance, error) {
	var a attendance.Attendance
	query := `SELECT ` + attendanceColumns + ` FROM attendances
		WHERE tenant_id = $1 AND member_id = $2 AND attended_on = $3`

	if err := r.db.GetQuerier(ctx).GetContext(ctx, &a, query, types.GetTenantID(ctx), memberID, date); err != nil {
		return nil, getError(err, "attendance", map[string]any{
			"member_id": memberID,
			"date":      date,
		})
	}
	return &a, nil
}

func (r *attendanceRepository) Update(ctx context.Context, a *attendance.Attendance) error {
	query := `
		UPDATE attendances SET
			dismissed = :dismissed,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id`

	res, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, a)
	return updateError(res, err, "attendance", map[string]any{"id": a.ID})
}

func (r *attendanceRepository) ListByDate(ctx context.Context, date types.ISODate) ([]*attendance.Attendance, error) {
	var rows []*attendance.Attendance
	query := `SELECT ` + attendanceColumns + ` FROM attendances
		WHERE tenant_id = $1 AND attended_on = $2 AND NOT dismissed
		ORDER BY created_at`

	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &rows, query, types.GetTenantID(ctx), date); err != nil {
		return nil, dbError(err, "failed to list attendance")
	}
	return rows, nil
}

func (r *attendanceRepository) CountByMember(ctx context.Context, memberID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM attendances WHERE tenant_id = $1 AND member_id = $2`

	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, types.GetTenantID(ctx), memberID); err != nil {
		return 0, dbError(err, "failed to count attendance")
	}
	return count, nil
}
