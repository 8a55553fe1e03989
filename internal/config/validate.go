package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateNormalize(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	return nil
}

func (c *Config) validateNormalize() error {
	switch c.Normalize.Separator {
	case "-", "_":
		return nil
	default:
		return fmt.Errorf("normalize.separator must be \"-\" or \"_\" (got %q)", c.Normalize.Separator)
	}
}

func (c *Config) validateScan() error {
	for _, ext := range c.Scan.Extensions {
		if strings.ContainsAny(ext, "/\\") {
			return fmt.Errorf("scan.extensions entry %q must not contain path separators", ext)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
}
