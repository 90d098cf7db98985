package core

import (
	"net/http"

	"github.com/gatehouse/gatehouse/db"
)

// authUserInfo is the public projection of a user record. Nothing else
// from the row ever leaves the service.
type authUserInfo struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Verified bool   `json:"verified"`
}

func newAuthUserInfo(user *db.User) authUserInfo {
	return authUserInfo{
		ID:       user.ID,
		Email:    user.Email,
		Name:     user.Name,
		Verified: user.Verified,
	}
}

type authSessionData struct {
	User authUserInfo `json:"user"`
}

type authStatusData struct {
	Authenticated bool          `json:"authenticated"`
	User          *authUserInfo `json:"user,omitempty"`
}

// writeAuthResponse writes the standard response for a successful
// login. The session itself travels only in the cookie.
func writeAuthResponse(w http.ResponseWriter, message string, user *db.User) {
	writeJsonWithData(w, JsonWithData{
		JsonBasic: JsonBasic{
			Status:  http.StatusOK,
			Code:    CodeOkAuthentication,
			Message: message,
		},
		Data: authSessionData{
			User: newAuthUserInfo(user),
		},
	})
}
