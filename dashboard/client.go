package dashboard

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/urrsk/go-urdash/logger"
)

// Client is a dashboard server client for a single robot.
//
// All command invocations are serialized through one mutex spanning the full
// write+read cycle, so concurrent callers block rather than interleave bytes
// on the wire. The protocol carries no correlation IDs; reply ordering is
// guaranteed by this serialization alone.
//
// A read timeout unilaterally tears the connection down. Every subsequent
// command fails with ErrNotConnected until the next successful Connect.
type Client struct {
	cfg    *ClientConfig
	logger logger.Logger

	// mu guards the connection handle, the full send+receive cycle, and the
	// scoped read-timeout overrides of long-running commands.
	mu          sync.Mutex
	conn        net.Conn
	transport   *lineTransport
	readTimeout time.Duration

	// Captured once per connection, immediately after connect.
	version         Version
	eSeries         bool
	softwareVersion string
}

// NewClient creates a dashboard client from the given configuration.
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("dashboard: client config is nil")
	}

	return &Client{
		cfg:    cfg,
		logger: cfg.logger,
	}, nil
}

// Connect opens a connection to the dashboard server, consumes the greeting
// banner, and captures the controller's PolyScope version to determine the
// generation used for command gating.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.logger.Error("already connected to dashboard server, refusing to reconnect", "addr", c.cfg.Addr())

		return ErrAlreadyConnected
	}

	conn, err := net.DialTimeout("tcp", c.cfg.Addr(), c.cfg.connectTimeout)
	if err != nil {
		return fmt.Errorf("dashboard: connect to %s: %w", c.cfg.Addr(), err)
	}

	c.conn = conn
	c.transport = newLineTransport(conn)
	c.readTimeout = c.cfg.readTimeout

	// The server sends an unsolicited banner line before accepting commands.
	banner, err := c.readReplyLocked()
	if err != nil {
		c.closeLocked()

		return fmt.Errorf("dashboard: reading banner: %w", err)
	}

	c.logger.Info("connected to dashboard server", "addr", c.cfg.Addr(), "banner", banner)

	if _, err := c.captureVersionLocked(); err != nil {
		c.closeLocked()

		return err
	}

	return nil
}

// Disconnect closes the connection. It is a no-op on a disconnected client.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return
	}

	c.logger.Info("disconnecting from dashboard server", "addr", c.cfg.Addr())
	c.closeLocked()
}

// IsConnected reports whether the client currently holds an open connection.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.conn != nil
}

// Version returns the PolyScope version captured during Connect.
// The zero Version is returned while disconnected.
func (c *Client) Version() Version {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.version
}

// IsESeries reports whether the connected controller is an e-Series
// (PolyScope 5 or later). False while disconnected.
func (c *Client) IsESeries() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.eSeries
}

// SoftwareVersion returns the raw version reply captured during Connect,
// e.g. "URSoftware 5.9.4.10300 (Aug 05 2020)".
func (c *Client) SoftwareVersion() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.softwareVersion
}

// SendAndReceive performs one raw command exchange: it writes cmd as a single
// line and returns the trimmed reply line. Most callers should use the
// Command* methods instead, which validate the reply and honor version gating.
func (c *Client) SendAndReceive(cmd string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.sendAndReceiveLocked(cmd)
}

// --- Internal connection handling ---

func (c *Client) closeLocked() {
	if c.conn == nil {
		return
	}

	if err := c.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		c.logger.Error("failed to close dashboard connection", "error", err)
	}

	c.conn = nil
	c.transport = nil
	c.version = Version{}
	c.eSeries = false
	c.softwareVersion = ""
}

// captureVersionLocked queries "PolyscopeVersion", populates the cached
// version and generation, and returns the raw reply. The exchange and the
// cache refresh share one critical section so no other command can observe a
// half-refreshed version. Called from Connect and CommandPolyscopeVersion.
func (c *Client) captureVersionLocked() (string, error) {
	reply, err := c.sendRequestCaptureLocked(cmdPolyscopeVersion.request, cmdPolyscopeVersion.expected)
	if err != nil {
		return "", err
	}

	if err := c.storeVersionLocked(reply); err != nil {
		return "", err
	}

	return reply, nil
}

func (c *Client) storeVersionLocked(reply string) error {
	version, err := ParseVersion(extractVersionString(reply))
	if err != nil {
		return err
	}

	c.softwareVersion = reply
	c.version = version
	c.eSeries = version.IsESeries()

	c.logger.Info("captured PolyScope version", "version", version.String(), "eSeries", c.eSeries)

	return nil
}

// extractVersionString cuts the dotted version out of a version reply such as
// "URSoftware 5.9.4.10300 (Aug 05 2020)".
func extractVersionString(reply string) string {
	s := reply
	if i := strings.Index(s, " "); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.Index(s, " ("); i >= 0 {
		s = s[:i]
	}

	return s
}

// --- Request/reply engine ---

// sendAndReceiveLocked executes one atomic command exchange.
// The caller must hold c.mu.
func (c *Client) sendAndReceiveLocked(cmd string) (string, error) {
	if c.conn == nil {
		return "", ErrNotConnected
	}

	c.logger.Debug("send dashboard command", "command", cmd)

	if err := c.transport.writeLine(cmd); err != nil {
		return "", fmt.Errorf("dashboard: failed to send request (%v): %w", err, ErrNotConnected)
	}

	return c.readReplyLocked()
}

// readReplyLocked reads one reply line under the current read deadline.
// A deadline miss discards the partial reply and forces a disconnect.
func (c *Client) readReplyLocked() (string, error) {
	line, err := c.transport.readLine(c.readTimeout)
	if err != nil {
		if errors.Is(err, ErrReadTimeout) {
			c.logger.Error("no reply from dashboard server in time, disconnecting",
				"timeout", c.readTimeout)
			c.closeLocked()
		}

		return "", err
	}

	return line, nil
}

// sendRequestLocked sends cmd and validates the reply against expected,
// matched against the entire trimmed line. A mismatch is a hard failure.
func (c *Client) sendRequestLocked(cmd, expected string) error {
	_, err := c.sendRequestCaptureLocked(cmd, expected)

	return err
}

// sendRequestCaptureLocked is sendRequestLocked returning the matched reply,
// used by the query commands.
func (c *Client) sendRequestCaptureLocked(cmd, expected string) (string, error) {
	reply, err := c.sendAndReceiveLocked(cmd)
	if err != nil {
		return "", err
	}

	if !matchReply(expected, reply) {
		c.logger.Error("unexpected dashboard reply", "command", cmd, "expected", expected, "reply", reply)

		return "", &UnexpectedReplyError{Command: cmd, Expected: expected, Actual: reply}
	}

	return reply, nil
}

// runWithReadTimeout executes fn under the connection mutex with the read
// deadline temporarily widened to d. The previous deadline is restored on
// every exit path. Holding the mutex for the whole override keeps one
// caller's widened deadline from leaking into another caller's request.
func (c *Client) runWithReadTimeout(d time.Duration, fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.readTimeout
	c.readTimeout = d
	defer func() { c.readTimeout = prev }()

	return fn()
}
