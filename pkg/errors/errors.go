package errors

import "fmt"

var (
	// Tokens
	ErrInvalidSigningMethod = fmt.Errorf("invalid token signing method")
	ErrInvalidToken         = fmt.Errorf("invalid token")
	ErrTokenExpired         = fmt.Errorf("token has expired")
	ErrTokenIsNotRefresh    = fmt.Errorf("token is not a refresh token")
	ErrTokenIsNotAccess     = fmt.Errorf("token is not an access token")

	// Authentication
	ErrEmptyAuthHeader    = fmt.Errorf("authorization header is missing")
	ErrInvalidAuthHeader  = fmt.Errorf("invalid authorization header format")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Context
	ErrUserIDNotFoundInContext = fmt.Errorf("user id not found in request context")

	// Lifecycle rules
	ErrNotFound            = fmt.Errorf("record not found")
	ErrEquipmentScrapped   = fmt.Errorf("cannot create maintenance requests for scrapped equipment")
	ErrInvalidDuration     = fmt.Errorf("duration can only be set when status is Repaired")
	ErrTechnicianNotInTeam = fmt.Errorf("technician must belong to the assigned maintenance team")
	ErrUnauthorized        = fmt.Errorf("you are not authorized to work on this request")

	ErrBadRequest = fmt.Errorf("bad request")
)

// TransitionError rejects a status change that is not in the allowed-transition
// table. From/To carry the human-readable status labels for diagnostics.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}

func NewTransitionError(from, to string) error {
	return &TransitionError{From: from, To: to}
}

type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}
