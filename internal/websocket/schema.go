package websocket

import "time"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing    Action = "ping"
	ActionReaudit Action = "reaudit"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError          Event = "error"
	EventPong           Event = "pong"
	EventAuditQueued    Event = "audit_queued"
	EventAuditCompleted Event = "audit_completed"
	EventAuditFailed    Event = "audit_failed"
)

// AuditEvent is published by the audit worker on a plan's Redis channel and
// relayed to connected clients when an assignment pass finishes.
type AuditEvent struct {
	Event       Event     `json:"event"`
	PlanID      string    `json:"plan_id"`
	CompletedAt time.Time `json:"completed_at"`
}

type QueuedResponse struct {
	Event Event `json:"event"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
