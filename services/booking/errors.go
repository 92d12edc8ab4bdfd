package booking

import "fmt"

const (
	CodeValidation        = "validation"
	CodeNotFound          = "notFound"
	CodeForbidden         = "forbidden"
	CodeInvalidTransition = "invalidTransition"
	CodeNotCancellable    = "notCancellable"
	CodeInternal          = "internal"
)

// BookingError carries a code the handlers map to an HTTP status and a message safe to show users.
type BookingError struct {
	Code    string
	Message string
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newBookingError(code, msg string) error {
	return &BookingError{Code: code, Message: msg}
}
