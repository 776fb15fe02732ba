package inference

import "errors"

var (
	// ErrUnavailable indicates the inference server is unreachable.
	ErrUnavailable = errors.New("inference server unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("inference request timed out")

	// ErrInvalidOutput indicates the response body could not be decoded
	// into the expected shape.
	ErrInvalidOutput = errors.New("invalid inference output")

	// ErrServer indicates the server answered with a non-200 status.
	ErrServer = errors.New("inference server error")
)
