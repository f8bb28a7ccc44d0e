package ports

// Notifier pushes live events to a connected user. Delivery is best-effort
// at-most-once: when the user has no active connection the event is dropped,
// with no queueing or retry. The persisted record stays the source of truth;
// clients recover missed events by re-fetching.
type Notifier interface {
	Push(userID, event string, payload any)
}
