package types

// NotificationStatus is the outcome of one outbound message.
type NotificationStatus string

const (
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
	NotificationStatusSkipped NotificationStatus = "skipped"
)

// NotificationKind tells reminders apart from transactional messages.
type NotificationKind string

const (
	NotificationKindReminder NotificationKind = "reminder"
	NotificationKindReceipt  NotificationKind = "receipt"
	NotificationKindManual   NotificationKind = "manual"
)
