package domain

import "errors"

var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrGroupNotFound      = errors.New("group not found")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrForbidden          = errors.New("you do not have permission to perform this action")
	ErrGroupNameTaken     = errors.New("group with this name already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
)

// ValidationError identifies the offending field and the violated constraint.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	return e.Detail
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, detail string) *ValidationError {
	return &ValidationError{Field: field, Detail: detail}
}
