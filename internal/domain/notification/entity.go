package notification

import "time"

// Type is the event that produced a notification.
type Type string

const (
	TypeLateArrival       Type = "late_arrival"
	TypeGeofenceViolation Type = "geofence_violation"
	TypeOvertimeRequested Type = "overtime_requested"
	TypeOvertimeDecided   Type = "overtime_decided"
	TypeTaskRejected      Type = "task_rejected"
	TypeTaskForced        Type = "task_force_completed"
)

type Notification struct {
	ID          string
	RecipientID string
	Type        Type
	Title       string
	Message     string
	IsRead      bool
	CreatedAt   time.Time
}

// CreateNotificationRequest is what producers enqueue; persistence and
// delivery happen in the background.
type CreateNotificationRequest struct {
	RecipientID string
	Type        Type
	Title       string
	Message     string
}
