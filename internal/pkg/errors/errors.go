package errors

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrInvalid       = errors.New("invalid")
	ErrConflict      = errors.New("conflict")
	ErrInternal      = errors.New("internal")
	ErrTitleTooLong  = errors.New("uploaded file title must be less than 100 characters")
	ErrEmptyFile     = errors.New("file is empty")
	ErrTitleRequired = errors.New("title is required to publish a document")
	ErrEditLocked    = errors.New("document is already being edited")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
