package domain

import "time"

// Audit trail action names.
const (
	ActionUserRegistered = "user.registered"
	ActionUserLogin      = "user.login"
	ActionLoginFailed    = "user.login_failed"
	ActionTaskCreated    = "task.created"
	ActionTaskUpdated    = "task.updated"
	ActionTaskDeleted    = "task.deleted"
)

// ActivityEvent records a single auth or task action for the audit trail.
type ActivityEvent struct {
	Action     string
	ActorID    string
	ActorEmail string
	TargetID   string // task or user the action touched, if any
	Timestamp  time.Time
}
