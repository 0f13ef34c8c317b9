package api

import (
	"errors"
	"fmt"
	"strings"

	appErr "github.com/breezeware/dynamodocs/internal/pkg/errors"
)

// Error is a non-2xx response. The backend reports business failures as a
// list of human-readable detail strings; the first one is what Classify
// pattern-matches.
type Error struct {
	StatusCode int
	Details    []string
}

func (e *Error) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Details[0])
	}
	return fmt.Sprintf("api: status %d", e.StatusCode)
}

func (e *Error) Detail() string {
	if len(e.Details) == 0 {
		return ""
	}
	return e.Details[0]
}

// Classify maps a server failure onto a known business error, or returns
// the error unchanged when no pattern matches. The substring matching on
// detail text lives here and nowhere else; callers pick user-facing
// messages from the sentinel, not from the raw detail.
func Classify(err error) error {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return err
	}
	detail := apiErr.Detail()
	switch {
	case strings.Contains(detail, "Uploaded file Title must be less than 100 characters"):
		return appErr.ErrTitleTooLong
	case strings.Contains(detail, "File is Empty"):
		return appErr.ErrEmptyFile
	default:
		return err
	}
}
