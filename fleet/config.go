package fleet

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/urrsk/go-urdash/dashboard"
)

// Duration wraps time.Duration with YAML support for strings like "500ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("fleet: invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)

	return nil
}

// RobotConfig describes one robot in a fleet configuration file.
type RobotConfig struct {
	Name string `yaml:"name"`
	Host string `yaml:"host"`

	// Port of the dashboard server. 0 selects dashboard.DefaultPort.
	Port int `yaml:"port"`

	// Optional timeout overrides; zero values keep the dashboard defaults.
	ReadTimeout    Duration `yaml:"read_timeout"`
	ConnectTimeout Duration `yaml:"connect_timeout"`
}

// Config is a fleet configuration: the set of robots to supervise.
type Config struct {
	Robots []RobotConfig `yaml:"robots"`
}

// ParseConfig parses and validates a YAML fleet configuration.
func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("fleet: parsing config: %w", err)
	}

	seen := make(map[string]struct{}, len(cfg.Robots))
	for i, robot := range cfg.Robots {
		if robot.Name == "" {
			return nil, fmt.Errorf("fleet: robot #%d has no name", i)
		}
		if robot.Host == "" {
			return nil, fmt.Errorf("fleet: robot %q has no host", robot.Name)
		}
		if _, dup := seen[robot.Name]; dup {
			return nil, fmt.Errorf("fleet: duplicate robot name %q", robot.Name)
		}
		seen[robot.Name] = struct{}{}
	}

	return cfg, nil
}

// LoadConfig reads and parses a YAML fleet configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fleet: reading config: %w", err)
	}

	return ParseConfig(data)
}

// clientConfig materializes a dashboard.ClientConfig for the robot, applying
// extra options after the ones derived from the file.
func (rc RobotConfig) clientConfig(extra ...dashboard.ClientOption) (*dashboard.ClientConfig, error) {
	opts := make([]dashboard.ClientOption, 0, len(extra)+3)

	if rc.Port != 0 {
		opts = append(opts, dashboard.WithPort(rc.Port))
	}
	if rc.ReadTimeout != 0 {
		opts = append(opts, dashboard.WithReadTimeout(time.Duration(rc.ReadTimeout)))
	}
	if rc.ConnectTimeout != 0 {
		opts = append(opts, dashboard.WithConnectTimeout(time.Duration(rc.ConnectTimeout)))
	}
	opts = append(opts, extra...)

	return dashboard.NewClientConfig(rc.Host, opts...)
}
