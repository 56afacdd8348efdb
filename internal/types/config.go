package types

type RunMode string

const (
	// ModeLocal runs the API server, the event router and the reminder scheduler in one process
	ModeLocal RunMode = "local"
	// ModeAPI runs just the API server
	ModeAPI RunMode = "api"
	// ModeScheduler runs just the reminder scheduler and the event router
	ModeScheduler RunMode = "scheduler"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// PubSubType defines the type of pubsub implementation
type PubSubType string

const (
	// MemoryPubSub uses the in-process watermill gochannel implementation
	MemoryPubSub PubSubType = "memory"
)
