package oauth2

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gatehouse/gatehouse/db"
)

// maxUserInfoBody caps how much of a userinfo response is read. Real
// responses are a few hundred bytes.
const maxUserInfoBody = 1 << 20

// UserFromUserInfoURL maps a provider's userinfo response onto a user
// record. The external identifier lands in the provider's slot, the
// account is marked verified, and the email is only taken when the
// provider asserts ownership.
func UserFromUserInfoURL(resp *http.Response, providerName string) (*db.User, error) {
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxUserInfoBody))
	if err != nil {
		return nil, fmt.Errorf("reading userinfo body: %w", err)
	}

	switch providerName {
	case db.ProviderGoogle:
		return googleUser(data)
	case db.ProviderMicrosoft:
		return microsoftUser(data)
	case db.ProviderAmazon:
		return amazonUser(data)
	case db.ProviderIDme:
		return idmeUser(data)
	}
	return nil, fmt.Errorf("unknown provider %q", providerName)
}

func googleUser(data []byte) (*db.User, error) {
	extracted := struct {
		Sub           string `json:"sub"`
		Name          string `json:"name"`
		GivenName     string `json:"given_name"`
		FamilyName    string `json:"family_name"`
		Picture       string `json:"picture"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}{}
	if err := json.Unmarshal(data, &extracted); err != nil {
		return nil, err
	}
	if extracted.Sub == "" {
		return nil, fmt.Errorf("google userinfo missing subject")
	}

	user := &db.User{
		GoogleID:  extracted.Sub,
		Verified:  true,
		Name:      extracted.Name,
		FirstName: extracted.GivenName,
		LastName:  extracted.FamilyName,
		Avatar:    extracted.Picture,
	}
	// Only trust an address the provider has verified.
	if extracted.EmailVerified {
		user.Email = extracted.Email
	}
	return user, nil
}

func microsoftUser(data []byte) (*db.User, error) {
	extracted := struct {
		ID                string `json:"id"`
		DisplayName       string `json:"displayName"`
		GivenName         string `json:"givenName"`
		Surname           string `json:"surname"`
		Mail              string `json:"mail"`
		UserPrincipalName string `json:"userPrincipalName"`
	}{}
	if err := json.Unmarshal(data, &extracted); err != nil {
		return nil, err
	}
	if extracted.ID == "" {
		return nil, fmt.Errorf("microsoft userinfo missing id")
	}

	// Graph leaves mail empty for some account types; the principal name
	// is the sign-in address then.
	email := extracted.Mail
	if email == "" && strings.Contains(extracted.UserPrincipalName, "@") {
		email = extracted.UserPrincipalName
	}

	return &db.User{
		MicrosoftID: extracted.ID,
		Verified:    true,
		Email:       email,
		Name:        extracted.DisplayName,
		FirstName:   extracted.GivenName,
		LastName:    extracted.Surname,
	}, nil
}

func amazonUser(data []byte) (*db.User, error) {
	extracted := struct {
		UserID string `json:"user_id"`
		Name   string `json:"name"`
		Email  string `json:"email"`
	}{}
	if err := json.Unmarshal(data, &extracted); err != nil {
		return nil, err
	}
	if extracted.UserID == "" {
		return nil, fmt.Errorf("amazon profile missing user_id")
	}

	return &db.User{
		AmazonID: extracted.UserID,
		Verified: true,
		Email:    extracted.Email,
		Name:     extracted.Name,
	}, nil
}

// idmeUser maps the ID.me v3 attributes payload. Identity fields arrive
// as handle/value pairs; group affiliation comes from the status list.
func idmeUser(data []byte) (*db.User, error) {
	extracted := struct {
		Attributes []struct {
			Handle string `json:"handle"`
			Value  string `json:"value"`
		} `json:"attributes"`
		Status []struct {
			Group    string `json:"group"`
			Verified bool   `json:"verified"`
		} `json:"status"`
	}{}
	if err := json.Unmarshal(data, &extracted); err != nil {
		return nil, err
	}

	user := &db.User{Verified: true}
	for _, attr := range extracted.Attributes {
		switch attr.Handle {
		case "uuid":
			user.IDmeID = attr.Value
		case "email":
			user.Email = attr.Value
		case "fname":
			user.FirstName = attr.Value
		case "lname":
			user.LastName = attr.Value
		}
	}
	if user.IDmeID == "" {
		return nil, fmt.Errorf("id.me attributes missing uuid")
	}
	user.Name = strings.TrimSpace(user.FirstName + " " + user.LastName)

	for _, s := range extracted.Status {
		if s.Verified {
			user.Affiliation = s.Group
			break
		}
	}
	return user, nil
}
