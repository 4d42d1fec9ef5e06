package rest

import (
	"errors"
	"fmt"
)

// ErrNotFound means the resource does not exist. Accessors map it to an
// empty result, not an error state.
var ErrNotFound = errors.New("not found")

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.Status, e.Body)
}

// Login flows surface auth failures with a fixed code->message table; every
// other code collapses into the generic message.
var authMessages = map[string]string{
	"auth/invalid-credential":     "Invalid email or password",
	"auth/user-not-found":         "No account matches this email",
	"auth/wrong-password":         "Invalid email or password",
	"auth/email-already-in-use":   "An account already exists for this email",
	"auth/invalid-email":          "Malformed email address",
	"auth/too-many-requests":      "Too many attempts, try again later",
	"auth/network-request-failed": "Network error, check your connection",
}

const genericAuthMessage = "Sign-in failed, please retry"

func AuthMessage(code string) string {
	if msg, ok := authMessages[code]; ok {
		return msg
	}
	return genericAuthMessage
}
