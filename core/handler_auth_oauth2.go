package core

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/gatehouse/gatehouse/crypto"
	"github.com/gatehouse/gatehouse/db"
	oauth2provider "github.com/gatehouse/gatehouse/oauth2"
)

// oauth2TokenExchangeTimeout bounds the token exchange and userinfo
// calls so an unresponsive provider cannot hold the handler.
const oauth2TokenExchangeTimeout = 10 * time.Second

// OAuth2ProviderInfo contains the provider details needed for client-side OAuth2 flow
type OAuth2ProviderInfo struct {
	Name                string `json:"name"`
	DisplayName         string `json:"displayName"`
	State               string `json:"state"`
	AuthURL             string `json:"authURL"`
	RedirectURL         string `json:"redirectURL"`
	CodeVerifier        string `json:"codeVerifier,omitempty"`
	CodeChallenge       string `json:"codeChallenge,omitempty"`
	CodeChallengeMethod string `json:"codeChallengeMethod,omitempty"`
}

// OAuth2ProviderListData wraps the list of providers for standardized response
type OAuth2ProviderListData struct {
	Providers []OAuth2ProviderInfo `json:"providers"`
}

type oauth2Request struct {
	Provider     string `json:"provider"`
	Code         string `json:"code"`
	CodeVerifier string `json:"code_verifier"`
	RedirectURI  string `json:"redirect_uri"`
}

// AuthWithOAuth2Handler completes an OAuth2 authorization code flow and
// establishes a session.
// Endpoint: POST /api/auth/oauth2
// Authenticated: No
// Allowed Mimetype: application/json
func (a *App) AuthWithOAuth2Handler(w http.ResponseWriter, r *http.Request) {
	if err, resp := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req oauth2Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	if req.Provider == "" || req.Code == "" || req.RedirectURI == "" {
		a.recordAuthEvent(r, "", db.ActionOauth2, AuditStatusValidationFailed)
		writeJsonError(w, errorMissingFields)
		return
	}

	provider, ok := a.Config().OAuth2Providers[req.Provider]
	if !ok {
		a.recordAuthEvent(r, "", db.ActionOauth2, AuditStatusValidationFailed)
		writeJsonError(w, errorInvalidOAuth2Provider)
		return
	}
	if provider.PKCE && req.CodeVerifier == "" {
		a.recordAuthEvent(r, "", db.ActionOauth2, AuditStatusValidationFailed)
		writeJsonError(w, errorMissingFields)
		return
	}

	oauth2Config := oauth2.Config{
		ClientID:     provider.ClientID,
		ClientSecret: provider.ClientSecret,
		RedirectURL:  req.RedirectURI,
		Scopes:       provider.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  provider.AuthURL,
			TokenURL: provider.TokenURL,
		},
	}

	ctx, cancel := context.WithTimeout(r.Context(), oauth2TokenExchangeTimeout)
	defer cancel()

	var exchangeOpts []oauth2.AuthCodeOption
	if provider.PKCE {
		exchangeOpts = append(exchangeOpts, oauth2.SetAuthURLParam("code_verifier", req.CodeVerifier))
	}
	token, err := oauth2Config.Exchange(ctx, req.Code, exchangeOpts...)
	if err != nil {
		a.Logger().Warn("oauth2 token exchange failed", "provider", provider.Name, "error", err)
		writeJsonError(w, errorOAuth2TokenExchangeFailed)
		return
	}

	client := oauth2Config.Client(ctx, token)
	resp, err := client.Get(provider.UserInfoURL)
	if err != nil {
		a.Logger().Warn("oauth2 userinfo request failed", "provider", provider.Name, "error", err)
		writeJsonError(w, errorOAuth2UserInfoFailed)
		return
	}
	defer resp.Body.Close()

	oauthUser, err := oauth2provider.UserFromUserInfoURL(resp, provider.Name)
	if err != nil {
		a.Logger().Warn("failed to map provider user info", "provider", provider.Name, "error", err)
		writeJsonError(w, errorOAuth2UserInfoProcessing)
		return
	}

	user, err := a.resolveOauth2User(provider.Name, oauthUser)
	if err != nil {
		a.Logger().Error("failed to resolve oauth2 user", "provider", provider.Name, "error", err)
		writeJsonError(w, errorOAuth2DatabaseError)
		return
	}

	session, err := a.createSession(user.ID)
	if err != nil {
		a.Logger().Error("failed to create session", "error", err, "user_id", user.ID)
		writeJsonError(w, errorOAuth2DatabaseError)
		return
	}
	a.setSessionCookie(w, session)

	if err := a.DbAuth().UpdateLastLogin(user.ID); err != nil {
		a.Logger().Error("failed to update last login", "error", err, "user_id", user.ID)
	}

	a.recordAuthEvent(r, user.ID, db.ActionOauth2, AuditStatusSuccess)
	writeAuthResponse(w, "Login successful", user)
}

// resolveOauth2User finds or creates the account for an external
// identity. Matching by the provider's identifier wins; a user with the
// same email address gets the identity linked into their empty slot; an
// unknown identity creates a verified account. The create path upserts
// on email conflict, so two concurrent first logins both succeed
// without a transaction.
func (a *App) resolveOauth2User(providerName string, oauthUser *db.User) (*db.User, error) {
	oauthUser.Email = NormalizeEmail(oauthUser.Email)
	externalID := oauthUser.ProviderID(providerName)

	user, err := a.DbAuth().GetUserByProvider(providerName, externalID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	if oauthUser.Email != "" {
		user, err = a.DbAuth().GetUserByEmail(oauthUser.Email)
		if err != nil && !errors.Is(err, db.ErrUserNotFound) {
			return nil, err
		}
		if user != nil {
			if err := a.DbAuth().LinkProvider(user.ID, providerName, externalID); err != nil {
				return nil, err
			}
			// The provider asserted ownership of the address, which is
			// what our own code verification would have established.
			if !user.Verified {
				if err := a.DbAuth().MarkVerified(user.ID); err != nil {
					return nil, err
				}
				user.Verified = true
			}
			return user, nil
		}
	}

	return a.DbAuth().CreateUserWithOauth2(*oauthUser)
}

// ListOAuth2ProvidersHandler returns the providers a client can start
// an OAuth2 flow against, each with a fresh state and, where the
// provider supports it, PKCE material.
// Endpoint: GET /api/auth/oauth2/providers
// Authenticated: No
func (a *App) ListOAuth2ProvidersHandler(w http.ResponseWriter, r *http.Request) {
	cfg := a.Config()

	var providers []OAuth2ProviderInfo
	for _, name := range cfg.EnabledProviderNames() {
		provider := cfg.OAuth2Providers[name]

		state := crypto.Oauth2State()
		oauth2Config := oauth2.Config{
			ClientID:     provider.ClientID,
			ClientSecret: provider.ClientSecret,
			RedirectURL:  provider.RedirectURL,
			Scopes:       provider.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  provider.AuthURL,
				TokenURL: provider.TokenURL,
			},
		}

		info := OAuth2ProviderInfo{
			Name:        name,
			DisplayName: provider.DisplayName,
			State:       state,
			RedirectURL: provider.RedirectURL,
		}

		if provider.PKCE {
			codeVerifier := crypto.Oauth2CodeVerifier()
			codeChallenge := crypto.S256Challenge(codeVerifier)
			info.AuthURL = oauth2Config.AuthCodeURL(state,
				oauth2.SetAuthURLParam("code_challenge", codeChallenge),
				oauth2.SetAuthURLParam("code_challenge_method", crypto.PKCECodeChallengeMethod),
			)
			info.CodeVerifier = codeVerifier
			info.CodeChallenge = codeChallenge
			info.CodeChallengeMethod = crypto.PKCECodeChallengeMethod
		} else {
			info.AuthURL = oauth2Config.AuthCodeURL(state)
		}

		providers = append(providers, info)
	}

	if len(providers) == 0 {
		writeJsonError(w, errorInvalidOAuth2Provider)
		return
	}

	writeJsonWithData(w, JsonWithData{
		JsonBasic: JsonBasic{
			Status:  http.StatusOK,
			Code:    CodeOkOAuth2ProvidersList,
			Message: "OAuth2 providers list",
		},
		Data: OAuth2ProviderListData{Providers: providers},
	})
}
