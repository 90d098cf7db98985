package httprouter

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandleMethodQualifiedEndpoints(t *testing.T) {
	rt := New()
	rt.Handle("POST /api/auth/login", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "login")
	}))
	rt.HandleFunc("GET /api/auth/status", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "status")
	})
	// A bare path registers as GET.
	rt.Handle("/favicon.ico", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	testCases := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"registered POST", "POST", "/api/auth/login", http.StatusOK},
		{"registered GET", "GET", "/api/auth/status", http.StatusOK},
		{"bare path defaults to GET", "GET", "/favicon.ico", http.StatusOK},
		{"wrong method", "GET", "/api/auth/login", http.StatusMethodNotAllowed},
		{"unknown path", "GET", "/nope", http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			rec := httptest.NewRecorder()
			rt.ServeHTTP(rec, req)
			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
		})
	}
}

func TestSplitEndpoint(t *testing.T) {
	testCases := []struct {
		endpoint   string
		wantMethod string
		wantPath   string
	}{
		{"POST /api/auth/register", "POST", "/api/auth/register"},
		{"GET /api/auth/status", "GET", "/api/auth/status"},
		{"/favicon.ico", "GET", "/favicon.ico"},
	}

	for _, tc := range testCases {
		method, path := splitEndpoint(tc.endpoint)
		if method != tc.wantMethod || path != tc.wantPath {
			t.Errorf("splitEndpoint(%q) = %q %q, want %q %q",
				tc.endpoint, method, path, tc.wantMethod, tc.wantPath)
		}
	}
}
