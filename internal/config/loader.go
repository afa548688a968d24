package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileSystem is an abstraction for reading config files.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Loader reads configuration files and applies environment overrides.
type Loader struct {
	fs     FileSystem
	lookup func(string) (string, bool)
}

// NewLoader creates a loader backed by the OS file system and environment.
func NewLoader() *Loader {
	return &Loader{fs: OSFS{}, lookup: os.LookupEnv}
}

// NewLoaderWithFS creates a loader with a custom file system and
// environment lookup. A nil lookup disables environment overrides.
func NewLoaderWithFS(fsys FileSystem, lookup func(string) (string, bool)) *Loader {
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}
	return &Loader{fs: fsys, lookup: lookup}
}

// Load reads path, applies environment overrides and validates the result.
// An empty path yields the defaults with overrides applied.
func (l *Loader) Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := l.fs.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := decode(path, data, cfg); err != nil {
			return nil, err
		}
	}

	if err := l.applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", displayPath(path), err)
	}
	return cfg, nil
}

// decode parses data into cfg according to the file extension.
func decode(path string, data []byte, cfg *Config) error {
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(cfg)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	if err != nil {
		return &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return nil
}

// applyEnv overrides file values from UNDOCTX_* variables.
func (l *Loader) applyEnv(cfg *Config) error {
	if v, ok := l.lookup("UNDOCTX_MODE"); ok {
		cfg.Mode = v
	}
	if v, ok := l.lookup("UNDOCTX_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := l.lookup("UNDOCTX_STRICT_OWNER"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("UNDOCTX_STRICT_OWNER: %w", err)
		}
		cfg.StrictOwner = b
	}
	return nil
}

func displayPath(path string) string {
	if path == "" {
		return "<defaults>"
	}
	return path
}

// IsNotExist reports whether err means the config file was missing.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
