package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gatehouse/gatehouse/crypto"
	"github.com/gatehouse/gatehouse/db"
)

// VerifyEmailHandler confirms a pending email verification code.
// Endpoint: POST /api/auth/verify
// Authenticated: No
// Allowed Mimetype: application/json
func (a *App) VerifyEmailHandler(w http.ResponseWriter, r *http.Request) {
	if err, resp := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	req.Email = NormalizeEmail(req.Email)
	req.Code = strings.TrimSpace(req.Code)
	if req.Email == "" || len(req.Code) != crypto.VerificationCodeLength {
		a.recordAuthEvent(r, "", db.ActionVerify, AuditStatusValidationFailed)
		writeJsonError(w, errorInvalidRequest)
		return
	}

	user, err := a.DbAuth().GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			a.recordAuthEvent(r, "", db.ActionVerify, AuditStatusUserNotFound)
			writeJsonError(w, errorNotFound)
			return
		}
		a.Logger().Error("failed to load user for verification", "error", err)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}

	if user.Verified {
		writeJsonOk(w, okAlreadyVerified)
		return
	}

	if user.VerificationCode == "" || user.VerificationCode != req.Code {
		a.recordAuthEvent(r, user.ID, db.ActionVerify, AuditStatusInvalidCode)
		writeJsonError(w, errorInvalidCode)
		return
	}

	if time.Now().After(user.VerificationExpires) {
		a.recordAuthEvent(r, user.ID, db.ActionVerify, AuditStatusCodeExpired)
		writeJsonError(w, errorCodeExpired)
		return
	}

	if err := a.DbAuth().MarkVerified(user.ID); err != nil {
		a.Logger().Error("failed to mark user verified", "error", err, "user_id", user.ID)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}

	a.recordAuthEvent(r, user.ID, db.ActionVerify, AuditStatusSuccess)
	writeJsonOk(w, okEmailVerified)
}

// ResendVerificationHandler issues a fresh verification code to an
// unverified account. The previous code stops working, at most one code
// is live per user.
// Endpoint: POST /api/auth/resend
// Authenticated: No
// Allowed Mimetype: application/json
func (a *App) ResendVerificationHandler(w http.ResponseWriter, r *http.Request) {
	if err, resp := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		Email string `json:"email"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	req.Email = NormalizeEmail(req.Email)
	if req.Email == "" {
		a.recordAuthEvent(r, "", db.ActionResendCode, AuditStatusValidationFailed)
		writeJsonError(w, errorMissingFields)
		return
	}
	if err := ValidateEmail(req.Email); err != nil {
		a.recordAuthEvent(r, "", db.ActionResendCode, AuditStatusValidationFailed)
		writeJsonError(w, errorInvalidRequest)
		return
	}

	user, err := a.DbAuth().GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			a.recordAuthEvent(r, "", db.ActionResendCode, AuditStatusUserNotFound)
			writeJsonError(w, errorNotFound)
			return
		}
		a.Logger().Error("failed to load user for resend", "error", err)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}

	if user.Verified {
		writeJsonOk(w, okAlreadyVerified)
		return
	}

	code := crypto.VerificationCode()
	expires := time.Now().Add(a.Config().Verification.CodeExpiry.Duration)
	if err := a.DbAuth().SetVerificationCode(user.ID, code, expires); err != nil {
		a.Logger().Error("failed to store verification code", "error", err, "user_id", user.ID)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}

	if err := a.Mailer().SendVerificationCode(user.Email, code); err != nil {
		a.Logger().Error("failed to send verification email", "error", err, "user_id", user.ID)
		writeJsonError(w, errorEmailSendFailed)
		return
	}

	a.recordAuthEvent(r, user.ID, db.ActionResendCode, AuditStatusSuccess)
	writeJsonOk(w, okVerificationRequested)
}
