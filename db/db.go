package db

import (
	"errors"
	"time"
)

// Sentinel errors returned by store implementations. Callers compare with
// errors.Is; implementations wrap driver errors with fmt.Errorf("%w", ...).
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrConstraintUnique = errors.New("unique constraint violation")
)

// DbAuth provides user record access for authentication flows.
type DbAuth interface {
	// GetUserByEmail and GetUserById return ErrUserNotFound when no
	// matching record exists.
	GetUserByEmail(email string) (*User, error)
	GetUserById(id string) (*User, error)
	// GetUserByProvider looks up a user by the external identifier a provider
	// uses for them. Returns (nil, nil) when no matching record exists.
	GetUserByProvider(provider, externalID string) (*User, error)
	CreateUserWithPassword(user User) (*User, error)
	CreateUserWithOauth2(user User) (*User, error)
	// LinkProvider writes the external identifier into the user's provider
	// slot only if that slot is empty. An existing link is never overwritten.
	LinkProvider(userID, provider, externalID string) error
	SetVerificationCode(userID, code string, expires time.Time) error
	// MarkVerified sets verified=true and clears any outstanding
	// verification code and expiry. The transition is one-way.
	MarkVerified(userID string) error
	UpdateLastLogin(userID string) error
}

// DbSession provides server-side session storage.
type DbSession interface {
	InsertSession(s Session) error
	// GetSession returns the session for token, or ErrSessionNotFound.
	// Expired sessions are treated as not found.
	GetSession(token string) (*Session, error)
	DeleteSession(token string) error
	PurgeExpiredSessions(now time.Time) (int64, error)
}

// DbAuditLog is the append-only sink for authentication events.
type DbAuditLog interface {
	InsertAuthEvents(batch []AuthEvent) error
	PurgeAuthEventsBefore(cutoff time.Time) (int64, error)
}

// DbApp combines the store roles the application requires. The concrete
// implementation (*zombiezen.Db) must satisfy this interface.
type DbApp interface {
	DbAuth
	DbSession
	DbAuditLog
}

// TimeFormat renders a time in the canonical storage format (RFC3339, UTC).
func TimeFormat(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// TimeParse parses a stored timestamp. Empty strings parse to the zero time,
// matching nullable DATETIME columns.
func TimeParse(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}
