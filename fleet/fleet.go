// Package fleet manages dashboard clients for several robots at once, keyed
// by robot name, with the fleet layout loaded from a YAML configuration file.
package fleet

import (
	"errors"
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/urrsk/go-urdash/dashboard"
	"github.com/urrsk/go-urdash/logger"
)

var (
	// ErrDuplicateRobot indicates that a robot with the same name is already
	// registered in the fleet.
	ErrDuplicateRobot = errors.New("fleet: robot name already registered")

	// ErrUnknownRobot indicates that no robot with the given name is
	// registered in the fleet.
	ErrUnknownRobot = errors.New("fleet: unknown robot name")
)

// Fleet is a concurrency-safe registry of dashboard clients, one per robot.
type Fleet struct {
	logger  logger.Logger
	clients *xsync.MapOf[string, *dashboard.Client]
}

// NewFleet creates an empty fleet. A nil logger selects the package default.
func NewFleet(l logger.Logger) *Fleet {
	if l == nil {
		l = logger.GetLogger()
	}

	return &Fleet{
		logger:  l,
		clients: xsync.NewMapOf[string, *dashboard.Client](),
	}
}

// NewFleetFromConfig creates a fleet with one unconnected client per robot in
// cfg. extra options are applied to every client after the per-robot file
// settings.
func NewFleetFromConfig(cfg *Config, l logger.Logger, extra ...dashboard.ClientOption) (*Fleet, error) {
	if cfg == nil {
		return nil, errors.New("fleet: config is nil")
	}

	f := NewFleet(l)

	for _, robot := range cfg.Robots {
		clientCfg, err := robot.clientConfig(append([]dashboard.ClientOption{dashboard.WithLogger(f.logger.With("robot", robot.Name))}, extra...)...)
		if err != nil {
			return nil, fmt.Errorf("fleet: robot %q: %w", robot.Name, err)
		}

		client, err := dashboard.NewClient(clientCfg)
		if err != nil {
			return nil, fmt.Errorf("fleet: robot %q: %w", robot.Name, err)
		}

		if err := f.Add(robot.Name, client); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// Add registers a client under the given robot name.
func (f *Fleet) Add(name string, client *dashboard.Client) error {
	if client == nil {
		return errors.New("fleet: client is nil")
	}

	if _, loaded := f.clients.LoadOrStore(name, client); loaded {
		return fmt.Errorf("%w: %q", ErrDuplicateRobot, name)
	}

	return nil
}

// Get returns the client registered under the given robot name.
func (f *Fleet) Get(name string) (*dashboard.Client, error) {
	client, ok := f.clients.Load(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRobot, name)
	}

	return client, nil
}

// Remove disconnects and unregisters the client for the given robot name.
// Removing an unknown name is a no-op.
func (f *Fleet) Remove(name string) {
	if client, ok := f.clients.LoadAndDelete(name); ok {
		client.Disconnect()
	}
}

// Size returns the number of registered robots.
func (f *Fleet) Size() int {
	return f.clients.Size()
}

// Range calls fn for each registered robot until fn returns false.
func (f *Fleet) Range(fn func(name string, client *dashboard.Client) bool) {
	f.clients.Range(fn)
}

// ConnectAll connects every registered client. Failures are collected per
// robot and joined; already-connected clients are skipped.
func (f *Fleet) ConnectAll() error {
	var errs []error

	f.clients.Range(func(name string, client *dashboard.Client) bool {
		if client.IsConnected() {
			return true
		}

		if err := client.Connect(); err != nil {
			f.logger.Error("failed to connect robot", "robot", name, "error", err)
			errs = append(errs, fmt.Errorf("robot %q: %w", name, err))
		}

		return true
	})

	return errors.Join(errs...)
}

// DisconnectAll disconnects every registered client.
func (f *Fleet) DisconnectAll() {
	f.clients.Range(func(name string, client *dashboard.Client) bool {
		client.Disconnect()

		return true
	})
}
