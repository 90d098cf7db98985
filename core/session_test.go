package core

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gatehouse/gatehouse/cache/ristretto"
	"github.com/gatehouse/gatehouse/db"
	"github.com/gatehouse/gatehouse/db/mock"
)

func TestSessionFromRequest_CacheFallthrough(t *testing.T) {
	dbHits := 0
	store := &mock.Db{
		GetSessionFunc: func(token string) (*db.Session, error) {
			dbHits++
			return &db.Session{Token: token, UserID: "user123", Expires: time.Now().Add(time.Hour)}, nil
		},
	}
	app, _, _ := newTestApp(t, store, nil)

	c, err := ristretto.New[any]("small")
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	app.SetCache(c)

	newReq := func() *http.Request {
		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: app.Config().Session.CookieName, Value: "tok-abc"})
		return req
	}

	if _, err := app.sessionFromRequest(newReq()); err != nil {
		t.Fatalf("first lookup failed: %v", err)
	}
	if dbHits != 1 {
		t.Fatalf("db hits = %d, want 1", dbHits)
	}

	// Ristretto applies writes asynchronously.
	time.Sleep(10 * time.Millisecond)

	if _, err := app.sessionFromRequest(newReq()); err != nil {
		t.Fatalf("second lookup failed: %v", err)
	}
	if dbHits != 1 {
		t.Errorf("db hits = %d after cached lookup, want 1", dbHits)
	}
}

func TestSessionFromRequest_NoCookie(t *testing.T) {
	app, _, _ := newTestApp(t, &mock.Db{}, nil)

	req := httptest.NewRequest("GET", "/", nil)
	if _, err := app.sessionFromRequest(req); !errors.Is(err, db.ErrSessionNotFound) {
		t.Errorf("got %v, want ErrSessionNotFound", err)
	}
}

func TestDestroySessionEvictsCache(t *testing.T) {
	store := &mock.Db{
		GetSessionFunc: func(token string) (*db.Session, error) {
			return &db.Session{Token: token, UserID: "user123", Expires: time.Now().Add(time.Hour)}, nil
		},
	}
	app, _, _ := newTestApp(t, store, nil)

	c, err := ristretto.New[any]("small")
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	app.SetCache(c)

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: app.Config().Session.CookieName, Value: "tok-abc"})
	if _, err := app.sessionFromRequest(req); err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if err := app.destroySession("tok-abc"); err != nil {
		t.Fatalf("destroySession failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, found := c.Get(sessionCacheKey("tok-abc")); found {
		t.Error("session still cached after destroy")
	}
}

func TestCreateSessionUsesConfiguredDuration(t *testing.T) {
	var inserted db.Session
	store := &mock.Db{
		InsertSessionFunc: func(s db.Session) error {
			inserted = s
			return nil
		},
	}
	app, _, _ := newTestApp(t, store, nil)

	session, err := app.createSession("user123")
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}
	if session.Token == "" {
		t.Error("empty session token")
	}
	if session.Token != inserted.Token {
		t.Error("returned session differs from stored session")
	}
	want := session.Created.Add(app.Config().Session.Duration.Duration)
	if !session.Expires.Equal(want) {
		t.Errorf("expiry = %v, want %v", session.Expires, want)
	}
}
