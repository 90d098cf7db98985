package zombiezen

import (
	"errors"
	"testing"
	"time"

	"github.com/gatehouse/gatehouse/db"
)

func newTestSessionUser(t *testing.T, testDB *Db) *db.User {
	t.Helper()
	user, err := testDB.CreateUserWithPassword(db.User{
		Email:    "session@example.com",
		Password: "hash",
	})
	if err != nil {
		t.Fatalf("CreateUserWithPassword failed: %v", err)
	}
	return user
}

func TestSessionLifecycle(t *testing.T) {
	testDB := newTestDB(t)
	user := newTestSessionUser(t, testDB)

	now := time.Now()
	session := db.Session{
		Token:   "tok-abc",
		UserID:  user.ID,
		Created: now,
		Expires: now.Add(24 * time.Hour),
	}

	if err := testDB.InsertSession(session); err != nil {
		t.Fatalf("InsertSession failed: %v", err)
	}

	t.Run("Get", func(t *testing.T) {
		got, err := testDB.GetSession("tok-abc")
		if err != nil {
			t.Fatalf("GetSession failed: %v", err)
		}
		if got.UserID != user.ID {
			t.Errorf("user id = %q, want %q", got.UserID, user.ID)
		}
	})

	t.Run("DuplicateToken", func(t *testing.T) {
		err := testDB.InsertSession(session)
		if !errors.Is(err, db.ErrConstraintUnique) {
			t.Errorf("got %v, want ErrConstraintUnique", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := testDB.DeleteSession("tok-abc"); err != nil {
			t.Fatalf("DeleteSession failed: %v", err)
		}
		if _, err := testDB.GetSession("tok-abc"); !errors.Is(err, db.ErrSessionNotFound) {
			t.Errorf("got %v, want ErrSessionNotFound", err)
		}
	})

	t.Run("DeleteMissingIsNoop", func(t *testing.T) {
		if err := testDB.DeleteSession("never-existed"); err != nil {
			t.Errorf("DeleteSession on missing token: %v", err)
		}
	})
}

func TestSessionExpiry(t *testing.T) {
	testDB := newTestDB(t)
	user := newTestSessionUser(t, testDB)

	now := time.Now()
	expired := db.Session{
		Token:   "tok-expired",
		UserID:  user.ID,
		Created: now.Add(-25 * time.Hour),
		Expires: now.Add(-1 * time.Hour),
	}
	live := db.Session{
		Token:   "tok-live",
		UserID:  user.ID,
		Created: now,
		Expires: now.Add(24 * time.Hour),
	}

	for _, s := range []db.Session{expired, live} {
		if err := testDB.InsertSession(s); err != nil {
			t.Fatalf("InsertSession failed: %v", err)
		}
	}

	if _, err := testDB.GetSession("tok-expired"); !errors.Is(err, db.ErrSessionNotFound) {
		t.Errorf("expired session returned, want ErrSessionNotFound, got %v", err)
	}
	if _, err := testDB.GetSession("tok-live"); err != nil {
		t.Errorf("live session not returned: %v", err)
	}

	purged, err := testDB.PurgeExpiredSessions(now)
	if err != nil {
		t.Fatalf("PurgeExpiredSessions failed: %v", err)
	}
	if purged != 1 {
		t.Errorf("purged = %d, want 1", purged)
	}
	if _, err := testDB.GetSession("tok-live"); err != nil {
		t.Errorf("live session removed by purge: %v", err)
	}
}

func TestAuthEventBatch(t *testing.T) {
	testDB := newTestDB(t)

	now := time.Now()
	batch := []db.AuthEvent{
		{UserID: "u1", Action: db.ActionLogin, Status: "success", IP: "10.0.0.1", UserAgent: "cli", Created: now},
		{UserID: db.UserIDUnknown, Action: db.ActionLogin, Status: "failure", IP: "10.0.0.2"},
		{UserID: "u1", Action: db.ActionLogout, Status: "success", Created: now.Add(-100 * 24 * time.Hour)},
	}

	if err := testDB.InsertAuthEvents(batch); err != nil {
		t.Fatalf("InsertAuthEvents failed: %v", err)
	}
	if err := testDB.InsertAuthEvents(nil); err != nil {
		t.Errorf("empty batch should be a no-op: %v", err)
	}

	purged, err := testDB.PurgeAuthEventsBefore(now.Add(-90 * 24 * time.Hour))
	if err != nil {
		t.Fatalf("PurgeAuthEventsBefore failed: %v", err)
	}
	if purged != 1 {
		t.Errorf("purged = %d, want 1", purged)
	}
}
