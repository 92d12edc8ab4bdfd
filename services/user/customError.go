package user

import "fmt"

const (
	CodeValidation         = "validation"
	CodeInvalidCredentials = "invalidCredentials"
	CodeDuplicate          = "duplicate"
	CodeForbidden          = "forbidden"
	CodeOTP                = "otp"
	CodeInternal           = "internal"
)

// AuthError carries a code the handlers map to an HTTP status and a message safe to show users.
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newAuthError(code, msg string) error {
	return &AuthError{Code: code, Message: msg}
}
