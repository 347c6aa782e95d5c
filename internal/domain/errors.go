package domain

import "errors"

// Error kinds. Entity specific errors wrap one of these so callers can match with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInUse              = errors.New("still referenced")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidFilter      = errors.New("invalid filter")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrReferenceNotFound  = errors.New("referenced entity not found")
	ErrRoleNotFound       = errors.New("role not found")
	ErrUploadFailed       = errors.New("image upload failed")
	ErrRemoveFailed       = errors.New("image removal failed")
)
