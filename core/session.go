package core

import (
	"errors"
	"net/http"
	"time"

	"github.com/gatehouse/gatehouse/crypto"
	"github.com/gatehouse/gatehouse/db"
)

// sessionCachePrefix namespaces session tokens in the shared cache so
// they cannot collide with blocked-IP keys.
const sessionCachePrefix = "session:"

const sessionCacheCost = 1

func sessionCacheKey(token string) string {
	return sessionCachePrefix + token
}

// createSession issues a new opaque session for the user and stores it.
// Expiry is absolute from creation, sliding renewal is deliberately not
// offered.
func (a *App) createSession(userID string) (db.Session, error) {
	cfg := a.Config()
	now := time.Now()
	session := db.Session{
		Token:   crypto.SessionToken(),
		UserID:  userID,
		Created: now,
		Expires: now.Add(cfg.Session.Duration.Duration),
	}
	if err := a.DbSession().InsertSession(session); err != nil {
		return db.Session{}, err
	}
	return session, nil
}

func (a *App) setSessionCookie(w http.ResponseWriter, session db.Session) {
	cfg := a.Config()
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Session.CookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.Expires,
		HttpOnly: true,
		Secure:   cfg.Session.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *App) clearSessionCookie(w http.ResponseWriter) {
	cfg := a.Config()
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Session.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// sessionFromRequest resolves the request's session cookie to a live
// session. The cache is consulted first; on a miss the database row is
// loaded and cached until the session expires. Returns
// db.ErrSessionNotFound for absent, unknown and expired tokens alike.
func (a *App) sessionFromRequest(r *http.Request) (*db.Session, error) {
	cfg := a.Config()
	cookie, err := r.Cookie(cfg.Session.CookieName)
	if err != nil || cookie.Value == "" {
		return nil, db.ErrSessionNotFound
	}
	token := cookie.Value

	if a.cache != nil {
		if cached, found := a.cache.Get(sessionCacheKey(token)); found {
			if session, ok := cached.(*db.Session); ok {
				if session.Expires.After(time.Now()) {
					return session, nil
				}
				a.cache.Del(sessionCacheKey(token))
				return nil, db.ErrSessionNotFound
			}
		}
	}

	session, err := a.DbSession().GetSession(token)
	if err != nil {
		return nil, err
	}

	if a.cache != nil {
		a.cache.SetWithTTL(sessionCacheKey(token), session, sessionCacheCost, time.Until(session.Expires))
	}
	return session, nil
}

// currentUser returns the authenticated user for the request, or nil
// when the request carries no valid session.
func (a *App) currentUser(r *http.Request) *db.User {
	session, err := a.sessionFromRequest(r)
	if err != nil {
		return nil
	}
	user, err := a.DbAuth().GetUserById(session.UserID)
	if err != nil {
		if !errors.Is(err, db.ErrUserNotFound) {
			a.Logger().Error("failed to load session user", "error", err)
		}
		return nil
	}
	return user
}

// destroySession removes the session row and its cache entry. A missing
// row is not an error, logout is idempotent.
func (a *App) destroySession(token string) error {
	if a.cache != nil {
		a.cache.Del(sessionCacheKey(token))
	}
	return a.DbSession().DeleteSession(token)
}
