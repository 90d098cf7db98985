package oauth2

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

func userInfoResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestGoogleUserMapping(t *testing.T) {
	body := `{"sub":"g-123","name":"Ada Lovelace","given_name":"Ada","family_name":"Lovelace",
		"picture":"https://lh3.example/photo.jpg","email":"ada@example.com","email_verified":true}`
	user, err := UserFromUserInfoURL(userInfoResponse(200, body), "google")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.GoogleID != "g-123" {
		t.Errorf("google id = %q", user.GoogleID)
	}
	if user.Email != "ada@example.com" {
		t.Errorf("email = %q", user.Email)
	}
	if user.FirstName != "Ada" || user.LastName != "Lovelace" {
		t.Errorf("name split = %q %q", user.FirstName, user.LastName)
	}
	if user.Avatar == "" {
		t.Error("avatar not mapped")
	}
	if !user.Verified {
		t.Error("provider-asserted account should be verified")
	}
}

func TestGoogleUnverifiedEmailDropped(t *testing.T) {
	body := `{"sub":"g-124","email":"spoof@example.com","email_verified":false}`
	user, err := UserFromUserInfoURL(userInfoResponse(200, body), "google")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "" {
		t.Errorf("unverified email should not be taken, got %q", user.Email)
	}
}

func TestMicrosoftUserMapping(t *testing.T) {
	body := `{"id":"ms-9","displayName":"Grace Hopper","givenName":"Grace","surname":"Hopper",
		"mail":"grace@example.com","userPrincipalName":"grace@example.com"}`
	user, err := UserFromUserInfoURL(userInfoResponse(200, body), "microsoft")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.MicrosoftID != "ms-9" {
		t.Errorf("microsoft id = %q", user.MicrosoftID)
	}
	if user.Email != "grace@example.com" {
		t.Errorf("email = %q", user.Email)
	}
}

func TestMicrosoftPrincipalNameFallback(t *testing.T) {
	body := `{"id":"ms-10","displayName":"No Mail","userPrincipalName":"nomail@example.com"}`
	user, err := UserFromUserInfoURL(userInfoResponse(200, body), "microsoft")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "nomail@example.com" {
		t.Errorf("email = %q, want principal name fallback", user.Email)
	}
}

func TestAmazonUserMapping(t *testing.T) {
	body := `{"user_id":"amzn1.account.XYZ","name":"Alan Turing","email":"alan@example.com"}`
	user, err := UserFromUserInfoURL(userInfoResponse(200, body), "amazon")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.AmazonID != "amzn1.account.XYZ" {
		t.Errorf("amazon id = %q", user.AmazonID)
	}
	if user.Name != "Alan Turing" {
		t.Errorf("name = %q", user.Name)
	}
}

func TestIDmeUserMapping(t *testing.T) {
	body := `{"attributes":[
		{"handle":"fname","value":"Sam"},
		{"handle":"lname","value":"Carter"},
		{"handle":"email","value":"sam@example.com"},
		{"handle":"uuid","value":"idme-uuid-1"}],
		"status":[{"group":"military","subgroups":["Veteran"],"verified":true}]}`
	user, err := UserFromUserInfoURL(userInfoResponse(200, body), "idme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.IDmeID != "idme-uuid-1" {
		t.Errorf("idme id = %q", user.IDmeID)
	}
	if user.Name != "Sam Carter" {
		t.Errorf("name = %q", user.Name)
	}
	if user.Affiliation != "military" {
		t.Errorf("affiliation = %q", user.Affiliation)
	}
}

func TestUserInfoErrors(t *testing.T) {
	testCases := []struct {
		name     string
		provider string
		status   int
		body     string
	}{
		{"unknown provider", "myspace", 200, `{}`},
		{"non-200 status", "google", 500, `{}`},
		{"malformed json", "google", 200, `{not json`},
		{"google missing subject", "google", 200, `{"email":"x@example.com"}`},
		{"microsoft missing id", "microsoft", 200, `{"mail":"x@example.com"}`},
		{"amazon missing user_id", "amazon", 200, `{"name":"x"}`},
		{"idme missing uuid", "idme", 200, `{"attributes":[{"handle":"email","value":"x@example.com"}]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := UserFromUserInfoURL(userInfoResponse(tc.status, tc.body), tc.provider); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
