package atlas

import "fmt"

// APIError is a rejection returned by the Atlas API. The fields mirror the
// Atlas error body so callers can branch on ErrorCode (e.g. weak-password
// rejections) instead of re-parsing raw responses.
type APIError struct {
	Message    string `json:"detail"`
	ErrorCode  string `json:"errorCode"`
	HTTPStatus int    `json:"error"`
	Reason     string `json:"reason"`
	Parameters []any  `json:"parameters"`
}

func (e *APIError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("atlas returned %d (%s): %s", e.HTTPStatus, e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("atlas returned %d: %s", e.HTTPStatus, e.Message)
}

// UnreachableError means the request never produced a response: DNS failure,
// connection refused, or a transport timeout.
type UnreachableError struct {
	Err error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("could not reach MongoDB Atlas: %v", e.Err)
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}
