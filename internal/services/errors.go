package services

import "errors"

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidAssignee   = errors.New("one or more assignees do not exist")
	ErrInvalidStatus     = errors.New("task status does not exist")
	ErrInvalidRole       = errors.New("user role does not exist")
	ErrEmailTaken        = errors.New("email is already registered")
	ErrNoUserIDsProvided = errors.New("at least one user ID is required")
)

// IsNotFound reports whether err means a referenced task or user is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTaskNotFound) || errors.Is(err, ErrUserNotFound)
}

// IsInvalidReference reports whether err means an assignee ID or catalog
// name did not resolve.
func IsInvalidReference(err error) bool {
	return errors.Is(err, ErrInvalidAssignee) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidRole)
}

// IsConflict reports whether err is a uniqueness violation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrEmailTaken)
}

// IsInvalidInput reports whether err rejects the shape of the request itself.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrNoUserIDsProvided)
}
