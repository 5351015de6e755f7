package config

import (
	"strconv"
	"sync"

	"github.com/rileyhilliard/hexctl/internal/errors"
)

// Store keeps the last-used robot endpoint. Setters validate and update the
// in-memory value; Save persists it.
type Store struct {
	mu   sync.Mutex
	path string
	cfg  *Config
}

// NewStore wraps cfg, persisting to path.
func NewStore(path string, cfg *Config) *Store {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Store{path: path, cfg: cfg}
}

// OpenStore loads the config (or defaults) and wraps it.
func OpenStore(explicit string) (*Store, error) {
	cfg, path, err := LoadOrDefault(explicit)
	if err != nil {
		return nil, err
	}
	return NewStore(path, cfg), nil
}

// Path returns where Save writes.
func (s *Store) Path() string {
	return s.path
}

// Config returns a copy of the current config.
func (s *Store) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.cfg
}

// Address returns the saved robot address.
func (s *Store) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Robot.Address
}

// Port returns the saved robot port.
func (s *Store) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Robot.Port
}

// SetAddress updates the robot address.
func (s *Store) SetAddress(address string) error {
	if err := ValidateAddress(address); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Robot.Address = address
	return nil
}

// SetPort updates the robot port.
func (s *Store) SetPort(port int) error {
	if err := ValidatePort(port); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Robot.Port = port
	return nil
}

// Save writes the robot endpoint to the config file, keeping everything else
// in the file as it was.
func (s *Store) Save() error {
	s.mu.Lock()
	address, port := s.cfg.Robot.Address, s.cfg.Robot.Port
	s.mu.Unlock()

	if s.path == "" {
		return errors.New(errors.ErrConfig,
			"No config path to save to",
			"Pass --config or set $HOME")
	}

	if err := SetValue(s.path, "robot.address", address); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't save robot address", "Check permissions on "+s.path)
	}
	if err := SetValue(s.path, "robot.port", strconv.Itoa(port)); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't save robot port", "Check permissions on "+s.path)
	}
	return nil
}
