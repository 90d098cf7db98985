package core

import (
	"encoding/json"
	"net/http"
)

// Standard response codes
const (
	// oks
	CodeOkRegistration          = "ok_registration"
	CodeOkEmailVerified         = "ok_email_verified"
	CodeOkAlreadyVerified       = "ok_already_verified"
	CodeOkVerificationRequested = "ok_verification_requested"
	CodeOkLogout                = "ok_logout"

	// errors
	CodeErrorInvalidRequest             = "err_invalid_input"
	CodeErrorMissingFields              = "err_missing_fields"
	CodeErrorPasswordComplexity         = "err_password_complexity"
	CodeErrorEmailConflict              = "err_email_conflict"
	CodeErrorNotFound                   = "err_not_found"
	CodeErrorInvalidCode                = "err_invalid_verification_code"
	CodeErrorCodeExpired                = "err_verification_code_expired"
	CodeErrorInvalidCredentials         = "err_invalid_credentials"
	CodeErrorNotVerified                = "err_email_not_verified"
	CodeErrorEmailSendFailed            = "err_email_send_failed"
	CodeErrorAuthDatabaseError          = "err_auth_database_error"
	CodeErrorInvalidOAuth2Provider      = "err_invalid_oauth2_provider"
	CodeErrorOAuth2TokenExchangeFailed  = "err_oauth2_token_exchange_failed"
	CodeErrorOAuth2UserInfoFailed       = "err_oauth2_user_info_failed"
	CodeErrorOAuth2UserInfoProcessing   = "err_oauth2_user_info_processing_failed"
	CodeErrorOAuth2DatabaseError        = "err_oauth2_database_error"
	CodeErrorIpBlocked                  = "err_ip_blocked"
	CodeErrorInvalidContentType         = "err_invalid_content_type"
	CodeErrorServiceUnavailable         = "err_service_unavailable"
)

// precomputeBasicResponse marshals a short response once, during package
// initialization. Request handlers then write the stored bytes directly
// instead of re-marshaling the same body on every request.
func precomputeBasicResponse(status int, code, message string) jsonResponse {
	basic := JsonBasic{
		Status:  status,
		Code:    code,
		Message: message,
	}
	body, _ := json.Marshal(basic)
	return jsonResponse{status: status, body: body}
}

// Precomputed error and ok responses with status codes
var (
	// errors
	errorInvalidRequest            = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidRequest, "The request contains invalid data")
	errorMissingFields             = precomputeBasicResponse(http.StatusBadRequest, CodeErrorMissingFields, "Required fields are missing")
	errorPasswordComplexity        = precomputeBasicResponse(http.StatusBadRequest, CodeErrorPasswordComplexity, "Password must be at least 8 characters")
	errorEmailConflict             = precomputeBasicResponse(http.StatusConflict, CodeErrorEmailConflict, "Email address is already registered")
	errorNotFound                  = precomputeBasicResponse(http.StatusNotFound, CodeErrorNotFound, "User not found")
	errorInvalidCode               = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidCode, "Invalid verification code")
	errorCodeExpired               = precomputeBasicResponse(http.StatusBadRequest, CodeErrorCodeExpired, "Verification code has expired")
	errorInvalidCredentials        = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorInvalidCredentials, "Invalid credentials provided")
	errorNotVerified               = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorNotVerified, "Please verify your email before logging in")
	errorEmailSendFailed           = precomputeBasicResponse(http.StatusInternalServerError, CodeErrorEmailSendFailed, "Error sending verification email")
	errorAuthDatabaseError         = precomputeBasicResponse(http.StatusInternalServerError, CodeErrorAuthDatabaseError, "Database error during authentication")
	errorInvalidOAuth2Provider     = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidOAuth2Provider, "Invalid OAuth2 provider specified")
	errorOAuth2TokenExchangeFailed = precomputeBasicResponse(http.StatusBadRequest, CodeErrorOAuth2TokenExchangeFailed, "Failed to exchange OAuth2 token")
	errorOAuth2UserInfoFailed      = precomputeBasicResponse(http.StatusBadRequest, CodeErrorOAuth2UserInfoFailed, "Failed to get user info from OAuth2 provider")
	errorOAuth2UserInfoProcessing  = precomputeBasicResponse(http.StatusBadRequest, CodeErrorOAuth2UserInfoProcessing, "Failed to process user info from OAuth2 provider")
	errorOAuth2DatabaseError       = precomputeBasicResponse(http.StatusInternalServerError, CodeErrorOAuth2DatabaseError, "Database error during OAuth2 authentication")
	errorIpBlocked                 = precomputeBasicResponse(http.StatusTooManyRequests, CodeErrorIpBlocked, "IP address has been blocked due to excessive requests. Please try again later")
	errorInvalidContentType        = precomputeBasicResponse(http.StatusUnsupportedMediaType, CodeErrorInvalidContentType, "Unsupported media type")
	errorServiceUnavailable        = precomputeBasicResponse(http.StatusServiceUnavailable, CodeErrorServiceUnavailable, "Service is temporarily unavailable")

	// oks
	okRegistration          = precomputeBasicResponse(http.StatusCreated, CodeOkRegistration, "Registration successful. Please check your email for verification code.")
	okEmailVerified         = precomputeBasicResponse(http.StatusOK, CodeOkEmailVerified, "Email verified successfully")
	okAlreadyVerified       = precomputeBasicResponse(http.StatusAccepted, CodeOkAlreadyVerified, "Email already verified - no further action needed")
	okVerificationRequested = precomputeBasicResponse(http.StatusAccepted, CodeOkVerificationRequested, "Verification email will be sent soon. Check your mailbox")
	okLogout                = precomputeBasicResponse(http.StatusOK, CodeOkLogout, "Logout successful")
)
