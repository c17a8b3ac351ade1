package domain

import "time"

// AuditAction names a session lifecycle transition.
type AuditAction string

const (
	AuditLogin       AuditAction = "login"
	AuditLoginFailed AuditAction = "login_failed"
	AuditLogout      AuditAction = "logout"
	AuditExpired     AuditAction = "expired"
	AuditRegister    AuditAction = "register"
)

// AuditEvent records one session lifecycle transition.
type AuditEvent struct {
	SessionID string      `json:"session_id" bson:"session_id"`
	Action    AuditAction `json:"action" bson:"action"`
	Username  string      `json:"username,omitempty" bson:"username,omitempty"`
	Role      Role        `json:"role,omitempty" bson:"role,omitempty"`
	Detail    string      `json:"detail,omitempty" bson:"detail,omitempty"`
	At        time.Time   `json:"at" bson:"at"`
}
