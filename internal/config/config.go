// Package config parses command-line arguments for the jsonexpect
// runner.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/jacoelho/jsonexpect/internal/exit"
)

const (
	// DefaultTimeout is the default timeout for URL document fetches.
	DefaultTimeout = 30 * time.Second
)

var (
	ErrNoArguments  = errors.New("no arguments provided")
	ErrNoCheckFiles = errors.New("no expectation files specified")
)

// Config represents the complete configuration for the jsonexpect tool.
type Config struct {
	CheckFiles []string
	Debug      bool

	// URL document fetching
	FetchTimeout time.Duration
	RateLimit    float64 // Fetches per second (0 = unlimited)
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if len(c.CheckFiles) == 0 {
		return ErrNoCheckFiles
	}

	for _, file := range c.CheckFiles {
		if _, err := os.Stat(file); err != nil {
			return fmt.Errorf("expectation file %s not found: %w", file, err)
		}
	}

	return nil
}

// HTTPClient creates an HTTP client for URL document sources.
func (c *Config) HTTPClient() *http.Client {
	return &http.Client{
		Timeout: c.FetchTimeout,
	}
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help is requested, returns nil config and exit result.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)

	// Suppress the default usage and error output since we handle both
	// ourselves.
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)

	var (
		debug     = fs.Bool("debug", false, "Enable debug output showing loaded documents")
		timeout   = fs.Duration("timeout", DefaultTimeout, "URL document fetch timeout")
		rateLimit = fs.Float64("rate-limit", 0, "Rate limit in document fetches per second (0 for unlimited)")
	)

	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Errorf("Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	files := fs.Args()
	if len(files) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoCheckFiles, Usage())
	}

	config := &Config{
		CheckFiles:   files,
		Debug:        *debug,
		FetchTimeout: *timeout,
		RateLimit:    *rateLimit,
	}

	if err := config.Validate(); err != nil {
		return nil, exit.Errorf("Error: %v\n\n%s", err, Usage())
	}

	return config, nil
}

// Usage returns a usage string for the CLI tool.
func Usage() string {
	return `jsonexpect - JSON document expectation runner

Usage: jsonexpect [options] <file1> [file2] ...

Options:
  --debug                 Enable debug output showing loaded documents
  --timeout DURATION      URL document fetch timeout (default: 30s)
  --rate-limit N          Rate limit in document fetches per second (0 for unlimited)
  -h, --help              Show this help message

Examples:
  jsonexpect checks.yaml                 # Run one expectation file
  jsonexpect checks.yaml --debug         # Show loaded documents
  jsonexpect a.yaml b.yaml               # Run multiple files in sequence
  jsonexpect api.yaml --rate-limit 5     # Throttle URL document fetches`
}
