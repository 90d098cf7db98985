package mock

import (
	"time"

	"github.com/gatehouse/gatehouse/db"
)

// Compile-time check to ensure Db implements the DbApp interface
var _ db.DbApp = (*Db)(nil)

// Db implements db.DbApp for testing purposes.
// Use function fields to allow overriding behavior in specific tests.
type Db struct {
	// --- DbAuth ---
	GetUserByEmailFunc         func(email string) (*db.User, error)
	GetUserByIdFunc            func(id string) (*db.User, error)
	GetUserByProviderFunc      func(provider, externalID string) (*db.User, error)
	CreateUserWithPasswordFunc func(user db.User) (*db.User, error)
	CreateUserWithOauth2Func   func(user db.User) (*db.User, error)
	LinkProviderFunc           func(userID, provider, externalID string) error
	SetVerificationCodeFunc    func(userID, code string, expires time.Time) error
	MarkVerifiedFunc           func(userID string) error
	UpdateLastLoginFunc        func(userID string) error

	// --- DbSession ---
	InsertSessionFunc        func(s db.Session) error
	GetSessionFunc           func(token string) (*db.Session, error)
	DeleteSessionFunc        func(token string) error
	PurgeExpiredSessionsFunc func(now time.Time) (int64, error)

	// --- DbAuditLog ---
	InsertAuthEventsFunc      func(batch []db.AuthEvent) error
	PurgeAuthEventsBeforeFunc func(cutoff time.Time) (int64, error)
}

// --- DbAuth ---

func (m *Db) GetUserByEmail(email string) (*db.User, error) {
	if m.GetUserByEmailFunc != nil {
		return m.GetUserByEmailFunc(email)
	}
	return nil, db.ErrUserNotFound
}

func (m *Db) GetUserById(id string) (*db.User, error) {
	if m.GetUserByIdFunc != nil {
		return m.GetUserByIdFunc(id)
	}
	return nil, db.ErrUserNotFound
}

func (m *Db) GetUserByProvider(provider, externalID string) (*db.User, error) {
	if m.GetUserByProviderFunc != nil {
		return m.GetUserByProviderFunc(provider, externalID)
	}
	return nil, nil
}

func (m *Db) CreateUserWithPassword(user db.User) (*db.User, error) {
	if m.CreateUserWithPasswordFunc != nil {
		return m.CreateUserWithPasswordFunc(user)
	}
	user.ID = "mock-pw-user-id"
	return &user, nil
}

func (m *Db) CreateUserWithOauth2(user db.User) (*db.User, error) {
	if m.CreateUserWithOauth2Func != nil {
		return m.CreateUserWithOauth2Func(user)
	}
	user.ID = "mock-oauth2-user-id"
	user.Verified = true
	return &user, nil
}

func (m *Db) LinkProvider(userID, provider, externalID string) error {
	if m.LinkProviderFunc != nil {
		return m.LinkProviderFunc(userID, provider, externalID)
	}
	return nil
}

func (m *Db) SetVerificationCode(userID, code string, expires time.Time) error {
	if m.SetVerificationCodeFunc != nil {
		return m.SetVerificationCodeFunc(userID, code, expires)
	}
	return nil
}

func (m *Db) MarkVerified(userID string) error {
	if m.MarkVerifiedFunc != nil {
		return m.MarkVerifiedFunc(userID)
	}
	return nil
}

func (m *Db) UpdateLastLogin(userID string) error {
	if m.UpdateLastLoginFunc != nil {
		return m.UpdateLastLoginFunc(userID)
	}
	return nil
}

// --- DbSession ---

func (m *Db) InsertSession(s db.Session) error {
	if m.InsertSessionFunc != nil {
		return m.InsertSessionFunc(s)
	}
	return nil
}

func (m *Db) GetSession(token string) (*db.Session, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(token)
	}
	return nil, db.ErrSessionNotFound
}

func (m *Db) DeleteSession(token string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(token)
	}
	return nil
}

func (m *Db) PurgeExpiredSessions(now time.Time) (int64, error) {
	if m.PurgeExpiredSessionsFunc != nil {
		return m.PurgeExpiredSessionsFunc(now)
	}
	return 0, nil
}

// --- DbAuditLog ---

func (m *Db) InsertAuthEvents(batch []db.AuthEvent) error {
	if m.InsertAuthEventsFunc != nil {
		return m.InsertAuthEventsFunc(batch)
	}
	return nil
}

func (m *Db) PurgeAuthEventsBefore(cutoff time.Time) (int64, error) {
	if m.PurgeAuthEventsBeforeFunc != nil {
		return m.PurgeAuthEventsBeforeFunc(cutoff)
	}
	return 0, nil
}
