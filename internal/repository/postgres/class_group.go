package postgres

import (
	"context"

	"github.com/dojocycle/dojocycle/internal/domain/classgroup"
	"github.com/dojocycle/dojocycle/internal/logger"
	"github.com/dojocycle/dojocycle/internal/postgres"
	"github.com/dojocycle/dojocycle/internal/types"
)

const classGroupColumns = `id, tenant_id, name, color, status, created_at, updated_at, created_by, updated_by`

type classGroupRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewClassGroupRepository(db *postgres.DB, logger *logger.Logger) classgroup.Repository {
	return &classGroupRepository{db: db, logger: logger}
}

// Create relies on the case-insensitive unique index over active names.
func (r *classGroupRepository) Create(ctx context.Context, g *classgroup.ClassGroup) error {
	query := `
		INSERT INTO class_groups (` + classGroupColumns + `) VALUES (
			:id, :tenant_id, :name, :color, :status, :created_at, :updated_at, :created_by, :updated_by
		)
		ON CONFLICT DO NOTHING`

	r.logger.Debugw("creating class group", "name", g.Name)

	res, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, g)
	return insertError(res, err, "class group", map[string]any{"name": g.Name})
}

func (r *classGroupRepository) Get(ctx context.Context, id string) (*classgroup.ClassGroup, error) {
	var g classgroup.ClassGroup
	query := `SELECT ` + classGroupColumns + ` FROM class_groups WHERE tenant_id = $1 AND id = $2 AND status <> $3`

	err := r.db.GetQuerier(ctx).GetContext(ctx, &g, query, types.GetTenantID(ctx), id, types.StatusDeleted)
	if err != nil {
		return nil, getError(err, "class group", map[string]any{"id": id})
	}
	return &g, nil
}

func (r *classGroupRepository) List(ctx context.Context) ([]*classgroup.ClassGroup, error) {
	var groups []*classgroup.ClassGroup
	query := `SELECT ` + classGroupColumns + ` FROM class_groups
		WHERE tenant_id = $1 AND status <> $2
		ORDER BY lower(name)`

	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &groups, query, types.GetTenantID(ctx), types.StatusDeleted); err != nil {
		return nil, dbError(err, "failed to list class groups")
	}
	return groups, nil
}

func (r *classGroupRepository) Update(ctx context.Context, g *classgroup.ClassGroup) error {
	query := `
		UPDATE class_groups SET
			name = :name,
			color = :color,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id AND status <> 'deleted'`

	res, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, g)
	return updateError(res, err, "class group", map[string]any{"id": g.ID})
}

// Delete is a soft delete; members keep their dangling class reference until reassigned.
func (r *classGroupRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE class_groups SET status = $1, updated_at = now(), updated_by = $2
		WHERE tenant_id = $3 AND id = $4 AND status <> $1`

	r.logger.Debugw("deleting class group", "class_group_id", id)

	res, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		types.StatusDeleted, types.GetUserID(ctx), types.GetTenantID(ctx), id)
	return updateError(res, err, "class group", map[string]any{"id": id})
}
