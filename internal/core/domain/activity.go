package domain

import "time"

// ActivityType enumerates audited auth events.
type ActivityType string

const (
	ActivityRegister     ActivityType = "auth.register"
	ActivityLoginSuccess ActivityType = "auth.login.success"
	ActivityLoginFailure ActivityType = "auth.login.failure"
)

// ActivityEvent is an audit record of an authentication action. Events are
// recorded asynchronously and never block the request that produced them.
type ActivityEvent struct {
	Type       ActivityType `json:"type"`
	Username   string       `json:"username"`
	UserID     string       `json:"user_id,omitempty"`
	RemoteIP   string       `json:"remote_ip,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}
