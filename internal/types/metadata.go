package types

import (
	"database/sql/driver"
	"encoding/json"

	ierr "github.com/dojocycle/dojocycle/internal/errors"
)

// Metadata holds free-form notes on a member (belt, guardian, medical notes),
// stored as a JSONB column.
type Metadata map[string]string

// Merge returns a copy of m with patch applied. An empty value removes the key.
func (m Metadata) Merge(patch map[string]string) Metadata {
	out := make(Metadata, len(m)+len(patch))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range patch {
		if v == "" {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

func (m *Metadata) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*m = make(Metadata)
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return ierr.NewError("unsupported metadata column type").
			WithHintf("Cannot read metadata of type %T", value).
			Mark(ierr.ErrDatabase)
	}

	result := make(Metadata)
	if err := json.Unmarshal(raw, &result); err != nil {
		return ierr.WithError(err).
			WithHint("Stored metadata is not valid JSON").
			Mark(ierr.ErrDatabase)
	}
	*m = result
	return nil
}

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}
