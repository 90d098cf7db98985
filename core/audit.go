package core

import (
	"net/http"

	"github.com/gatehouse/gatehouse/db"
)

// Audit event statuses. One row per authentication attempt, successful
// or not.
const (
	AuditStatusSuccess            = "success"
	AuditStatusValidationFailed   = "validation_failed"
	AuditStatusEmailExists        = "email_exists"
	AuditStatusUserNotFound       = "user_not_found"
	AuditStatusInvalidCode        = "invalid_code"
	AuditStatusCodeExpired        = "code_expired"
	AuditStatusInvalidCredentials = "invalid_credentials"
	AuditStatusNotVerified        = "not_verified"
)

// recordAuthEvent queues one audit row for the request. userID may be
// empty when the attempt could not be tied to a user; the recorder
// substitutes the unknown sentinel.
func (a *App) recordAuthEvent(r *http.Request, userID, action, status string) {
	a.auditor.Record(db.AuthEvent{
		UserID:    userID,
		Action:    action,
		Status:    status,
		IP:        a.ClientIP(r),
		UserAgent: r.UserAgent(),
	})
}
