package dashboard

import (
	"bufio"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	testBanner         = "Connected: Universal Robots Dashboard Server"
	eSeriesVersionLine = "URSoftware 5.9.4.10300 (Aug 05 2020)"
	cb3VersionLine     = "URSoftware 3.14.3.1031 (Mar 18 2020)"
)

// replyHandler maps one received command line to a reply line.
// Returning ok=false keeps the server silent, which drives the client into
// its read timeout.
type replyHandler func(cmd string) (reply string, ok bool)

// fakeDashboardServer is a scripted stand-in for the robot's dashboard
// server: it greets each connection with a banner line and answers every
// received command via the configured handler.
type fakeDashboardServer struct {
	t       *testing.T
	ln      net.Listener
	handler replyHandler

	mu       sync.Mutex
	received []string
}

func newFakeDashboardServer(t *testing.T, handler replyHandler) *fakeDashboardServer {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &fakeDashboardServer{t: t, ln: ln, handler: handler}
	go s.serve()

	t.Cleanup(func() {
		_ = ln.Close()
	})

	return s
}

func (s *fakeDashboardServer) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.session(conn)
	}
}

func (s *fakeDashboardServer) session(conn net.Conn) {
	defer conn.Close()

	fmt.Fprintf(conn, "%s\n", testBanner)

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		cmd := scanner.Text()

		s.mu.Lock()
		s.received = append(s.received, cmd)
		s.mu.Unlock()

		reply, ok := s.handler(cmd)
		if !ok {
			continue
		}
		fmt.Fprintf(conn, "%s\n", reply)
	}
}

func (s *fakeDashboardServer) port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

// commands returns a snapshot of all command lines received so far.
func (s *fakeDashboardServer) commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]string, len(s.received))
	copy(snapshot, s.received)

	return snapshot
}

// scriptedHandler answers from overrides first, then the version query, and
// falls back to the server's generic error line. An empty override marks the
// command as unanswered (server stays silent).
func scriptedHandler(versionLine string, overrides map[string]string) replyHandler {
	return func(cmd string) (string, bool) {
		if reply, ok := overrides[cmd]; ok {
			if reply == "" {
				return "", false
			}
			return reply, true
		}
		if cmd == "PolyscopeVersion" {
			return versionLine, true
		}
		return "could not understand", true
	}
}

func eSeriesHandler(overrides map[string]string) replyHandler {
	return scriptedHandler(eSeriesVersionLine, overrides)
}

func cb3Handler(overrides map[string]string) replyHandler {
	return scriptedHandler(cb3VersionLine, overrides)
}

// newTestClient creates and connects a client against the fake server with a
// short read timeout suitable for tests.
func newTestClient(t *testing.T, s *fakeDashboardServer, opts ...ClientOption) *Client {
	t.Helper()

	defaults := []ClientOption{
		WithPort(s.port()),
		WithReadTimeout(200 * time.Millisecond),
	}

	cfg, err := NewClientConfig("127.0.0.1", append(defaults, opts...)...)
	require.NoError(t, err)

	client, err := NewClient(cfg)
	require.NoError(t, err)

	require.NoError(t, client.Connect())
	t.Cleanup(client.Disconnect)

	return client
}
