package dashboard

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected indicates that the client has no open connection to the
	// dashboard server. Returned by every command after a disconnect until the
	// next successful Connect.
	ErrNotConnected = errors.New("dashboard: not connected, are you still connected to the dashboard server?")

	// ErrAlreadyConnected indicates that Connect was called on a client that
	// already holds an open connection.
	ErrAlreadyConnected = errors.New("dashboard: already connected, refusing to reconnect")

	// ErrReadTimeout indicates that no complete reply line arrived within the
	// active read deadline. The connection is torn down when this occurs.
	ErrReadTimeout = errors.New("dashboard: no reply from dashboard server within the read timeout")

	// ErrReplyTooLong indicates that a reply exceeded the maximum line length
	// without a terminating newline.
	ErrReplyTooLong = errors.New("dashboard: reply line exceeds maximum length")
)

// UnexpectedReplyError is returned when a reply does not match the expected
// pattern for the command. It carries both sides to aid diagnosis.
type UnexpectedReplyError struct {
	Command  string
	Expected string
	Actual   string
}

func (e *UnexpectedReplyError) Error() string {
	return fmt.Sprintf("dashboard: unexpected reply to %q: expected %q, received %q",
		e.Command, e.Expected, e.Actual)
}

// UnsupportedVersionError is returned when a command is not available on the
// connected controller generation or firmware version. It is evaluated before
// any byte is sent on the wire.
type UnsupportedVersionError struct {
	Command    string
	Generation string
	Required   string // empty when the command does not exist on Generation at all
	Actual     Version
}

func (e *UnsupportedVersionError) Error() string {
	if e.Required == "" {
		return fmt.Sprintf("dashboard: command %q is not available on %s controllers",
			e.Command, e.Generation)
	}
	return fmt.Sprintf("dashboard: command %q requires PolyScope %s on %s, connected controller reports %s",
		e.Command, e.Required, e.Generation, e.Actual)
}

// ParseError is returned when a PolyScope version string cannot be parsed.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dashboard: malformed PolyScope version string %q", e.Input)
}
