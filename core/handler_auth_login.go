package core

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gatehouse/gatehouse/crypto"
	"github.com/gatehouse/gatehouse/db"
)

// AuthWithPasswordHandler handles password-based authentication (login).
// Endpoint: POST /api/auth/login
// Authenticated: No
// Allowed Mimetype: application/json
//
// Unknown email and wrong password produce the same response so the
// endpoint cannot be used to enumerate accounts.
func (a *App) AuthWithPasswordHandler(w http.ResponseWriter, r *http.Request) {
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
		a.recordAuthEvent(r, "", db.ActionLogin, AuditStatusValidationFailed)
		writeJsonError(w, errorMissingFields)
		return
	}
	if err := ValidateEmail(req.Email); err != nil {
		a.recordAuthEvent(r, "", db.ActionLogin, AuditStatusValidationFailed)
		writeJsonError(w, errorInvalidRequest)
		return
	}

	user, err := a.DbAuth().GetUserByEmail(req.Email)
	if err != nil {
		if !errors.Is(err, db.ErrUserNotFound) {
			a.Logger().Error("failed to load user for login", "error", err)
			writeJsonError(w, errorAuthDatabaseError)
			return
		}
		a.recordAuthEvent(r, "", db.ActionLogin, AuditStatusInvalidCredentials)
		writeJsonError(w, errorInvalidCredentials)
		return
	}

	// An OAuth2-only account has no password hash; CheckPassword fails
	// on the empty hash, which is the behavior we want.
	if !crypto.CheckPassword(req.Password, user.Password) {
		a.recordAuthEvent(r, user.ID, db.ActionLogin, AuditStatusInvalidCredentials)
		writeJsonError(w, errorInvalidCredentials)
		return
	}

	if !user.Verified {
		a.recordAuthEvent(r, user.ID, db.ActionLogin, AuditStatusNotVerified)
		writeJsonError(w, errorNotVerified)
		return
	}

	session, err := a.createSession(user.ID)
	if err != nil {
		a.Logger().Error("failed to create session", "error", err, "user_id", user.ID)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}
	a.setSessionCookie(w, session)

	if err := a.DbAuth().UpdateLastLogin(user.ID); err != nil {
		// Informational field only, the login itself succeeded.
		a.Logger().Error("failed to update last login", "error", err, "user_id", user.ID)
	}

	a.recordAuthEvent(r, user.ID, db.ActionLogin, AuditStatusSuccess)
	writeAuthResponse(w, "Login successful", user)
}

// LogoutHandler terminates the request's session, if any. Idempotent: a
// request without a valid session still gets a success response and a
// cleared cookie.
// Endpoint: GET /api/auth/logout
// Authenticated: Optional
func (a *App) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	userID := ""
	cookie, err := r.Cookie(a.Config().Session.CookieName)
	if err == nil && cookie.Value != "" {
		if session, err := a.DbSession().GetSession(cookie.Value); err == nil {
			userID = session.UserID
		}
		if err := a.destroySession(cookie.Value); err != nil {
			a.Logger().Error("failed to delete session", "error", err)
			writeJsonError(w, errorAuthDatabaseError)
			return
		}
	}

	a.clearSessionCookie(w)
	a.recordAuthEvent(r, userID, db.ActionLogout, AuditStatusSuccess)
	writeJsonOk(w, okLogout)
}

// StatusHandler reports whether the request carries a live session and,
// if so, the public projection of its user.
// Endpoint: GET /api/auth/status
// Authenticated: Optional
func (a *App) StatusHandler(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(r)

	data := authStatusData{Authenticated: false}
	if user != nil {
		data.Authenticated = true
		info := newAuthUserInfo(user)
		data.User = &info
	}

	writeJsonWithData(w, JsonWithData{
		JsonBasic: JsonBasic{
			Status:  http.StatusOK,
			Code:    CodeOkAuthStatus,
			Message: "Authentication status",
		},
		Data: data,
	})
}
