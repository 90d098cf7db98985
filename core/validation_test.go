package core

import (
	"net/http/httptest"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	testCases := []struct {
		email   string
		wantErr bool
	}{
		{"user@example.com", false},
		{"first.last+tag@sub.example.co", false},
		{"", true},
		{"not-an-email", true},
		{"missing@domain@twice.com", true},
		{"@example.com", true},
	}

	for _, tc := range testCases {
		t.Run(tc.email, func(t *testing.T) {
			err := ValidateEmail(tc.email)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tc.email, err, tc.wantErr)
			}
		})
	}
}

func TestValidatorContentType(t *testing.T) {
	v := NewValidator()

	testCases := []struct {
		name        string
		contentType string
		wantErr     bool
	}{
		{"exact match", "application/json", false},
		{"with charset", "application/json; charset=utf-8", false},
		{"missing", "", true},
		{"wrong type", "text/plain", true},
		{"prefix is not a match", "application/jsonx", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", nil)
			if tc.contentType != "" {
				req.Header.Set("Content-Type", tc.contentType)
			}
			err, resp := v.ContentType(req, MimeTypeJSON)
			if (err != nil) != tc.wantErr {
				t.Errorf("ContentType error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr && resp.status != errorInvalidContentType.status {
				t.Errorf("response status = %d, want %d", resp.status, errorInvalidContentType.status)
			}
		})
	}
}
