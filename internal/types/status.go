package types

// Status is the row lifecycle of a persisted resource. Soft-deleted rows keep
// StatusDeleted and are excluded from queries.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDeleted  Status = "deleted"
)
