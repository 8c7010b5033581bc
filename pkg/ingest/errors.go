package ingest

import "errors"

// ErrSuperseded is the cause reported by a load that was cancelled because a
// newer load request took over the loader.
var ErrSuperseded = errors.New("ingestion superseded by a newer request")

// UserInputError signals that the user picked the wrong file (bad filename
// pattern or a file whose shape is not a telemetry export). The message is
// surfaced verbatim.
type UserInputError struct {
	Msg string
}

func (e *UserInputError) Error() string { return e.Msg }

// EmptyDataError signals that the input parsed fine but yielded no usable
// data (no rows, or no samples with valid GPS).
type EmptyDataError struct {
	Msg string
}

func (e *EmptyDataError) Error() string { return e.Msg }

// ParseError signals malformed structured data mid-stream.
type ParseError struct {
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *ParseError) Unwrap() error { return e.Err }
