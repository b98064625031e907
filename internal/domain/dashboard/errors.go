package dashboard

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredential indicates the remote service rejected the token.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrDatasetNotFound indicates a dataset identifier does not resolve.
	ErrDatasetNotFound = errors.New("dataset not found")
	// ErrTimeout indicates a call exceeded the client-side deadline.
	ErrTimeout = errors.New("request timed out")
	// ErrNetworkUnavailable indicates a transport failure before any response.
	ErrNetworkUnavailable = errors.New("network error: could not reach remote service")
	// ErrRemoteAPI indicates any other non-success response.
	ErrRemoteAPI = errors.New("remote API error")
)

// RemoteError is a classified failure of a call to the remote service.
// Kind is one of the sentinel errors above.
type RemoteError struct {
	Kind      error
	DatasetID string
	Message   string
	cause     error
}

// NewRemoteError builds a RemoteError of the given kind.
func NewRemoteError(kind error, datasetID, message string, cause error) *RemoteError {
	return &RemoteError{Kind: kind, DatasetID: datasetID, Message: message, cause: cause}
}

func (e *RemoteError) Error() string {
	switch {
	case errors.Is(e.Kind, ErrDatasetNotFound):
		return fmt.Sprintf("%s: %s", e.Kind, e.DatasetID)
	case errors.Is(e.Kind, ErrRemoteAPI) && e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	default:
		return e.Kind.Error()
	}
}

// Is matches the error kind so callers can use errors.Is with the sentinels.
func (e *RemoteError) Is(target error) bool {
	return target == e.Kind
}

func (e *RemoteError) Unwrap() error {
	return e.cause
}
