package notification

// Service is the fire-and-forget sink the core invokes on state transitions.
// Enqueue must never block the calling operation; delivery is best-effort.
type Service interface {
	Enqueue(req CreateNotificationRequest)
	Stop()
}
