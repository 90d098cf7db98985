package db

import "time"

// Supported external identity providers. Each maps to one nullable column on
// the users table; a given external identifier belongs to at most one user.
const (
	ProviderGoogle    = "google"
	ProviderMicrosoft = "microsoft"
	ProviderAmazon    = "amazon"
	ProviderIDme      = "idme"
)

// Providers lists the supported provider names in a stable order.
var Providers = []string{ProviderGoogle, ProviderMicrosoft, ProviderAmazon, ProviderIDme}

// User represents a user from the database.
// Timestamps use RFC3339 format in UTC timezone.
type User struct {
	ID    string
	Email string
	// Non empty password means password authentication is active.
	// Password is empty for users created through an OAuth2 provider who
	// never set one.
	Password string
	Verified bool
	// VerificationCode and VerificationExpires are set only while an email
	// verification window is open. At most one live code per user.
	VerificationCode    string
	VerificationExpires time.Time
	// External identifier per provider. Written once when the provider is
	// first linked, never overwritten.
	GoogleID    string
	MicrosoftID string
	AmazonID    string
	IDmeID      string
	// Profile fields are informational, last writer wins.
	Name        string
	FirstName   string
	LastName    string
	Avatar      string
	Affiliation string
	Created     time.Time
	LastLogin   time.Time
}

// ProviderID returns the external identifier stored for the given provider,
// or the empty string when the slot is empty or the provider is unknown.
func (u *User) ProviderID(provider string) string {
	switch provider {
	case ProviderGoogle:
		return u.GoogleID
	case ProviderMicrosoft:
		return u.MicrosoftID
	case ProviderAmazon:
		return u.AmazonID
	case ProviderIDme:
		return u.IDmeID
	}
	return ""
}

// Audit actions recorded in auth_logs.
const (
	ActionRegister   = "register"
	ActionLogin      = "login"
	ActionVerify     = "verify"
	ActionLogout     = "logout"
	ActionResendCode = "resend-code"
	ActionOauth2     = "oauth2"
)

// UserIDUnknown is the sentinel user id for events that could not be tied to
// a user record (bad email, validation failure).
const UserIDUnknown = "unknown"

// AuthEvent is one append-only audit row. Rows are never updated or deleted
// except by retention purging.
type AuthEvent struct {
	ID        string
	UserID    string
	Action    string
	Status    string
	IP        string
	UserAgent string
	Created   time.Time
}

// Session binds an opaque token to a user id. Expiry is absolute from
// creation; the row is purged after it passes.
type Session struct {
	Token   string
	UserID  string
	Created time.Time
	Expires time.Time
}
