package dashboard

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/urrsk/go-urdash/logger"
)

const (
	// DefaultPort is the TCP port the dashboard server listens on.
	DefaultPort = 29999

	// DefaultReadTimeout is the per-reply read deadline. It is temporarily
	// widened for long-running diagnostic commands.
	DefaultReadTimeout = 1 * time.Second

	// DefaultConnectTimeout is the TCP dial timeout.
	DefaultConnectTimeout = 3 * time.Second
)

// Read timeout range limits. The lower bound keeps the poll loop from
// spinning; the upper bound matches the longest known server-side operation
// (support file generation).
const (
	MinReadTimeout = 100 * time.Millisecond
	MaxReadTimeout = 10 * time.Minute
)

// ClientConfig holds all configuration for a dashboard client.
type ClientConfig struct {
	host string
	port int

	readTimeout    time.Duration
	connectTimeout time.Duration

	logger logger.Logger
}

// NewClientConfig creates a new dashboard client configuration for the robot
// at host.
//
// opts are functional options applied in order; see With* functions.
func NewClientConfig(host string, opts ...ClientOption) (*ClientConfig, error) {
	cfg := &ClientConfig{
		port:           DefaultPort,
		readTimeout:    DefaultReadTimeout,
		connectTimeout: DefaultConnectTimeout,
		logger:         logger.GetLogger(),
	}

	if err := cfg.setHost(host); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (cfg *ClientConfig) setHost(host string) error {
	if ip := net.ParseIP(host); ip != nil {
		cfg.host = host
		return nil
	}

	host = strings.TrimPrefix(host, ".")
	host = strings.TrimSuffix(host, ".")
	if _, err := net.LookupHost(host); err == nil {
		cfg.host = host
		return nil
	}

	return fmt.Errorf("dashboard: invalid host %q", host)
}

// --- Getters ---

// Host returns the configured robot host address.
func (cfg *ClientConfig) Host() string { return cfg.host }

// Port returns the configured dashboard server TCP port.
func (cfg *ClientConfig) Port() int { return cfg.port }

// Addr returns "host:port".
func (cfg *ClientConfig) Addr() string { return fmt.Sprintf("%s:%d", cfg.host, cfg.port) }

// ReadTimeout returns the per-reply read deadline.
func (cfg *ClientConfig) ReadTimeout() time.Duration { return cfg.readTimeout }

// ConnectTimeout returns the TCP dial timeout.
func (cfg *ClientConfig) ConnectTimeout() time.Duration { return cfg.connectTimeout }

// GetLogger returns the configured logger.
func (cfg *ClientConfig) GetLogger() logger.Logger { return cfg.logger }

// --- ClientOption ---

// ClientOption is a functional option for configuring a ClientConfig.
type ClientOption interface {
	apply(*ClientConfig) error
}

type clientOptFunc func(*ClientConfig) error

func (f clientOptFunc) apply(cfg *ClientConfig) error { return f(cfg) }

// WithPort sets the dashboard server TCP port. Defaults to DefaultPort.
func WithPort(port int) ClientOption {
	return clientOptFunc(func(cfg *ClientConfig) error {
		if port < 0 || port > 65535 {
			return fmt.Errorf("dashboard: port %d out of range [0, 65535]", port)
		}
		cfg.port = port

		return nil
	})
}

// WithReadTimeout sets the per-reply read deadline.
// Must be in [MinReadTimeout, MaxReadTimeout].
func WithReadTimeout(d time.Duration) ClientOption {
	return clientOptFunc(func(cfg *ClientConfig) error {
		if d < MinReadTimeout || d > MaxReadTimeout {
			return fmt.Errorf("dashboard: read timeout %v out of range [%v, %v]", d, MinReadTimeout, MaxReadTimeout)
		}
		cfg.readTimeout = d

		return nil
	})
}

// WithConnectTimeout sets the TCP dial timeout.
func WithConnectTimeout(d time.Duration) ClientOption {
	return clientOptFunc(func(cfg *ClientConfig) error {
		if d <= 0 {
			return errors.New("dashboard: connect timeout must be positive")
		}
		cfg.connectTimeout = d

		return nil
	})
}

// WithLogger sets the logger for the client.
func WithLogger(l logger.Logger) ClientOption {
	return clientOptFunc(func(cfg *ClientConfig) error {
		if l == nil {
			return errors.New("dashboard: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
