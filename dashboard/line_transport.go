package dashboard

import (
	"bufio"
	"net"
	"os"
	"strings"
	"time"
)

// maxLineLength caps how many bytes a single reply line may occupy before the
// read is abandoned. Dashboard replies are short; the cap only guards against
// a stream that never delivers a newline.
const maxLineLength = 4096

// trimCutset is the set of trailing characters stripped from reply lines.
const trimCutset = "\t\n\v\f\r "

// lineTransport maps logical command strings to newline-terminated wire lines
// and back.
//
// This type is NOT goroutine-safe. The Client serializes access through its
// connection mutex, consistent with the one-request-one-reply discipline of
// the dashboard protocol.
type lineTransport struct {
	conn   net.Conn
	reader *bufio.Reader
}

func newLineTransport(conn net.Conn) *lineTransport {
	return &lineTransport{
		conn:   conn,
		reader: bufio.NewReader(conn),
	}
}

// writeLine writes cmd followed by a single '\n'. Commands must not
// themselves contain newlines; no other escaping is applied.
func (lt *lineTransport) writeLine(cmd string) error {
	data := []byte(cmd + "\n")

	for written := 0; written < len(data); {
		n, err := lt.conn.Write(data[written:])
		written += n

		if err != nil {
			return err
		}
	}

	return nil
}

// readLine reads one reply line, byte by byte, applying timeout as the
// deadline for each individual byte. Reading stops at the first '\n'
// (inclusive) or fails with ErrReplyTooLong once maxLineLength bytes arrived
// without one. Trailing whitespace, including the "\r\n" terminator, is
// stripped from the returned line.
//
// On a deadline miss the partial line is discarded and ErrReadTimeout is
// returned; the caller is expected to tear the connection down.
func (lt *lineTransport) readLine(timeout time.Duration) (string, error) {
	buf := make([]byte, 0, 64)

	for len(buf) < maxLineLength {
		if err := lt.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return "", err
		}

		b, err := lt.reader.ReadByte()
		if err != nil {
			if isTimeoutError(err) {
				return "", ErrReadTimeout
			}

			return "", err
		}

		if b == '\n' {
			return strings.TrimRight(string(buf), trimCutset), nil
		}

		buf = append(buf, b)
	}

	return "", ErrReplyTooLong
}

func isTimeoutError(err error) bool {
	if os.IsTimeout(err) {
		return true
	}

	netErr, ok := err.(net.Error)

	return ok && netErr.Timeout()
}
