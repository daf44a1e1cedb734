package sheets

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

var (
	// ErrRangeParse marks a malformed A1 range.
	ErrRangeParse = errors.New("invalid A1 range")
	// ErrColorParse marks a malformed hex color.
	ErrColorParse = errors.New("invalid hex color")
	// ErrInvalidInput marks a request rejected before any network call.
	ErrInvalidInput = errors.New("invalid input")
)

// RemoteError reports a failed call to the Sheets or Drive API.
type RemoteError struct {
	Op      string
	Code    int
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s: remote returned %d: %s", e.Op, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// NewRemoteError wraps err with the upstream diagnostic when one is available.
// It returns nil for a nil err.
func NewRemoteError(op string, err error) error {
	if err == nil {
		return nil
	}
	re := &RemoteError{Op: op, Err: err}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		re.Code = gerr.Code
		re.Message = gerr.Message
		if re.Message == "" {
			re.Message = gerr.Body
		}
	}
	return re
}
