package event_bus

const (
	// ExpenseChangedEvent fires after every successful in-memory mutation of
	// the expense collection (add, update, delete, hydrate).
	ExpenseChangedEvent EventType = "expense.changed"

	// MirrorCompletedEvent reports the outcome of a fire-and-forget mirror
	// operation. The mutation is never rolled back on failure; this event is
	// the only place the failure is visible.
	MirrorCompletedEvent EventType = "mirror.completed"

	// NotificationSentEvent reports the outcome of a budget alert publish.
	NotificationSentEvent EventType = "notification.sent"
)

type ExpenseChanged struct {
	Op        string // "add", "update", "delete", "hydrate"
	ExpenseId string
}

type MirrorCompleted struct {
	Op        string // "put", "update", "delete"
	ExpenseId string
	// Err is the failure message, empty on success.
	Err string
}

type NotificationSent struct {
	Subject string
	Err     string
}
