package postgres

import (
	"database/sql"
	"errors"

	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/dojocycle/dojocycle/internal/postgres"
)

func dbError(err error, msg string) error {
	return ierr.WithError(err).
		WithMessage(msg).
		WithHint("A database error occurred").
		Mark(ierr.ErrDatabase)
}

// getError maps a single row lookup failure to NotFound or Database.
func getError(err error, entity string, details map[string]any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ierr.WithError(err).
			WithHintf("%s not found", entity).
			WithReportableDetails(details).
			Mark(ierr.ErrNotFound)
	}
	return dbError(err, "failed to get "+entity)
}

// insertError maps the outcome of an INSERT ... ON CONFLICT DO NOTHING. No affected rows
// means another row already holds the unique key.
func insertError(res sql.Result, err error, entity string, details map[string]any) error {
	alreadyExists := func() error {
		return ierr.NewError(entity+" already exists").
			WithHintf("%s already exists", entity).
			WithReportableDetails(details).
			Mark(ierr.ErrAlreadyExists)
	}

	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return alreadyExists()
		}
		return dbError(err, "failed to create "+entity)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return dbError(err, "failed to read affected rows")
	}
	if n == 0 {
		return alreadyExists()
	}
	return nil
}

// updateError maps an UPDATE that must touch exactly one row.
func updateError(res sql.Result, err error, entity string, details map[string]any) error {
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return ierr.WithError(err).
				WithHintf("%s already exists", entity).
				WithReportableDetails(details).
				Mark(ierr.ErrAlreadyExists)
		}
		return dbError(err, "failed to update "+entity)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return dbError(err, "failed to read affected rows")
	}
	if n == 0 {
		return ierr.NewError(entity+" not found").
			WithHintf("%s not found", entity).
			WithReportableDetails(details).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
