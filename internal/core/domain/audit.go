package domain

import "time"

// Audit actions recorded by the engine.
const (
	AuditRegister  = "register"
	AuditLogin     = "login"
	AuditAuthorize = "authorize"
)

// Audit outcomes.
const (
	AuditOK     = "ok"
	AuditDenied = "denied"
	AuditFailed = "failed"
)

// AuditEntry records a single authentication or authorization decision.
// Entries never contain plaintext passwords, hashes, or token material.
type AuditEntry struct {
	Action    string    `json:"action"`
	Subject   string    `json:"subject"`
	Outcome   string    `json:"outcome"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
