package core

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gatehouse/gatehouse/crypto"
	"github.com/gatehouse/gatehouse/db"
)

// RegisterWithPasswordHandler handles password-based user registration.
// Endpoint: POST /api/auth/register
// Authenticated: No
// Allowed Mimetype: application/json
//
// Registration of an email that already has an account is rejected,
// whether that account holds a password or is OAuth2-only.
// CreateUserWithPassword leaves an existing row untouched on conflict,
// so a concurrent double-register cannot corrupt the row; the loser
// detects the conflict by the hash it gets back.
func (a *App) RegisterWithPasswordHandler(w http.ResponseWriter, r *http.Request) {
	if err, resp := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	req.Email = NormalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		a.recordAuthEvent(r, "", db.ActionRegister, AuditStatusValidationFailed)
		writeJsonError(w, errorMissingFields)
		return
	}
	if err := ValidateEmail(req.Email); err != nil {
		a.recordAuthEvent(r, "", db.ActionRegister, AuditStatusValidationFailed)
		writeJsonError(w, errorInvalidRequest)
		return
	}
	if len(req.Password) < MinPasswordLength {
		a.recordAuthEvent(r, "", db.ActionRegister, AuditStatusValidationFailed)
		writeJsonError(w, errorPasswordComplexity)
		return
	}

	hashedPassword, err := crypto.GenerateHash(req.Password)
	if err != nil {
		a.Logger().Error("failed to hash password", "error", err)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}

	newUser := db.User{
		Email:    req.Email,
		Password: string(hashedPassword),
		Verified: false,
	}

	retrievedUser, err := a.DbAuth().CreateUserWithPassword(newUser)
	if err != nil {
		a.Logger().Error("failed to create user", "error", err)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}

	// A different hash means the row already existed and was returned
	// unchanged. An OAuth2-only row has an empty hash, which also
	// differs from the submitted one.
	if retrievedUser.Password != newUser.Password {
		a.recordAuthEvent(r, retrievedUser.ID, db.ActionRegister, AuditStatusEmailExists)
		writeJsonError(w, errorEmailConflict)
		return
	}

	code := crypto.VerificationCode()
	expires := time.Now().Add(a.Config().Verification.CodeExpiry.Duration)
	if err := a.DbAuth().SetVerificationCode(retrievedUser.ID, code, expires); err != nil {
		a.Logger().Error("failed to store verification code", "error", err, "user_id", retrievedUser.ID)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}

	// Delivery is synchronous; a user who never receives the code cannot
	// complete registration.
	if err := a.Mailer().SendVerificationCode(retrievedUser.Email, code); err != nil {
		a.Logger().Error("failed to send verification email", "error", err, "user_id", retrievedUser.ID)
		writeJsonError(w, errorEmailSendFailed)
		return
	}

	a.recordAuthEvent(r, retrievedUser.ID, db.ActionRegister, AuditStatusSuccess)
	writeJsonOk(w, okRegistration)
}
