package classgroup

import (
	"strings"

	"github.com/dojocycle/dojocycle/internal/types"
)

const DefaultColor = "#e5e7eb"

// ClassGroup is a named training group, e.g. "Infantiles" or "Adultos".
type ClassGroup struct {
	ID    string `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Color string `db:"color" json:"color"`

	types.BaseModel
}

// SameName compares names the way uniqueness is enforced: trimmed and case-insensitive.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
