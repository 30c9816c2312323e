// Package queue defines message payloads exchanged over the message broker.
package queue

// Event type labels published to the auth.events queue.
const (
	EventUserRegistered = "user.registered"
	EventUserLogin      = "user.login"
)

// AuthEvent is published after a successful registration or login.  It
// carries enough for downstream consumers to audit or alert without
// querying the directory.  No credentials or token material ever go on
// the wire here.
type AuthEvent struct {
	Type       string   `json:"type"`
	UserID     uint64   `json:"user_id"`
	Username   string   `json:"username"`
	Roles      []string `json:"roles"`
	RemoteIP   string   `json:"remote_ip,omitempty"`
	OccurredAt string   `json:"occurred_at"`
}
