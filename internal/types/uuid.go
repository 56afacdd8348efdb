package types

import (
	"fmt"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/teris-io/shortid"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex bp_01HZX3Q6M2T9K0V8R4N5B7C1DE
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

var (
	sidGenerator *shortid.Shortid
	once         sync.Once
)

func initializeSID() {
	var err error
	sidGenerator, err = shortid.New(1, shortid.DefaultABC, 4729)
	if err != nil {
		panic("failed to initialize shortid generator: " + err.Error())
	}
}

// GenerateShortIDWithPrefix returns an upper-cased short ID with a prefix,
// capped at 12 characters, e.g. `RC-X7K2QP9A`. Used for printable receipt numbers.
func GenerateShortIDWithPrefix(prefix string) string {
	once.Do(initializeSID)

	id, err := sidGenerator.Generate()
	if err != nil {
		return ""
	}
	id = strings.NewReplacer("-", "", "_", "").Replace(id)

	availableLen := 12 - len(prefix)
	if availableLen <= 0 {
		return ""
	}

	if len(id) > availableLen {
		id = id[:availableLen]
	}

	return strings.ToUpper(prefix + id)
}

const (
	UUID_PREFIX_BILLING_PERIOD   = "bp"
	UUID_PREFIX_PAYMENT          = "pay"
	UUID_PREFIX_ATTENDANCE       = "att"
	UUID_PREFIX_CLASS_GROUP      = "cls"
	UUID_PREFIX_NOTIFICATION_LOG = "ntf"
	UUID_PREFIX_EVENT            = "evt"
)

const (
	SHORT_ID_PREFIX_RECEIPT = "RC-"
)
