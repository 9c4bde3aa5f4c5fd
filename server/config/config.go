package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/pelletier/go-toml"

	"github.com/sig-0/fxvol/surface/types"
)

const (
	DefaultListenAddress = "0.0.0.0:8600"
	DefaultTerminalURL   = "http://127.0.0.1:8194"

	defaultTerminalTimeoutSeconds = 30
	defaultRefreshSeconds         = 300
)

var (
	ErrInvalidListenAddress = errors.New("invalid listen address")
	ErrMissingTerminalURL   = errors.New("missing terminal URL")
	ErrInvalidPair          = errors.New("invalid currency pair")
	ErrInvalidTenor         = errors.New("invalid tenor")
	ErrInvalidRefresh       = errors.New("invalid refresh interval")
)

var listenAddressRegex = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}:\d+$`)

// Config defines the base-level service configuration
type Config struct {
	// The associated CORS config, if any
	CORSConfig *CORS `toml:"cors_config"`

	// The market-data terminal bridge config
	Terminal *Terminal `toml:"terminal"`

	// The surface refresh config
	Surfaces *Surfaces `toml:"surfaces"`

	// The address at which the server will be served.
	// Format should be: <IP>:<PORT>
	ListenAddress string `toml:"listen_address"`
}

// Terminal holds the terminal bridge connection settings
type Terminal struct {
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the terminal request timeout
func (t *Terminal) Timeout() time.Duration {
	return time.Duration(t.TimeoutSeconds) * time.Second
}

// Surfaces holds the surface rebuild settings
type Surfaces struct {
	Pairs          []string `toml:"pairs"`
	Tenors         []string `toml:"tenors"`
	RefreshSeconds int      `toml:"refresh_seconds"`
}

// RefreshInterval returns the surface rebuild interval
func (s *Surfaces) RefreshInterval() time.Duration {
	return time.Duration(s.RefreshSeconds) * time.Second
}

// TenorList returns the configured tenor curve,
// falling back to the full supported curve when unset
func (s *Surfaces) TenorList() []types.Tenor {
	if len(s.Tenors) == 0 {
		return types.Tenors()
	}

	tenors := make([]types.Tenor, 0, len(s.Tenors))

	for _, tenor := range s.Tenors {
		tenors = append(tenors, types.Tenor(tenor))
	}

	return tenors
}

// DefaultConfig returns the default service configuration
func DefaultConfig() *Config {
	return &Config{
		ListenAddress: DefaultListenAddress,
		CORSConfig:    DefaultCORSConfig(),
		Terminal: &Terminal{
			URL:            DefaultTerminalURL,
			TimeoutSeconds: defaultTerminalTimeoutSeconds,
		},
		Surfaces: &Surfaces{
			Pairs:          []string{"EURUSD"},
			RefreshSeconds: defaultRefreshSeconds,
		},
	}
}

// ValidateConfig validates the service configuration
func ValidateConfig(config *Config) error {
	// Validate the listen address
	if !listenAddressRegex.MatchString(config.ListenAddress) {
		return ErrInvalidListenAddress
	}

	if config.Terminal == nil || config.Terminal.URL == "" {
		return ErrMissingTerminalURL
	}

	if config.Surfaces == nil {
		return nil
	}

	if config.Surfaces.RefreshSeconds <= 0 {
		return ErrInvalidRefresh
	}

	// Validate the configured pairs
	for _, pair := range config.Surfaces.Pairs {
		if !validPair(pair) {
			return fmt.Errorf("%w: %q", ErrInvalidPair, pair)
		}
	}

	// Validate the configured tenor curve
	known := make(map[types.Tenor]struct{}, len(types.Tenors()))
	for _, tenor := range types.Tenors() {
		known[tenor] = struct{}{}
	}

	for _, tenor := range config.Surfaces.Tenors {
		if _, ok := known[types.Tenor(tenor)]; !ok {
			return fmt.Errorf("%w: %q", ErrInvalidTenor, tenor)
		}
	}

	return nil
}

// validPair checks for the <BASE><QUOTE> 6-letter pair format
func validPair(pair string) bool {
	if len(pair) != 6 {
		return false
	}

	for i := range len(pair) {
		c := pair[i]

		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}

	return true
}

// Read reads the configuration from the given path
func Read(path string) (*Config, error) {
	// Read the config file
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Parse it
	var cfg Config

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
