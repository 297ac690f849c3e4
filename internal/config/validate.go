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
	if err := c.validateParser(); err != nil {
		return err
	}
	if err := c.validateFolders(); err != nil {
		return err
	}
	if c.Build.Concurrency <= 0 {
		return errors.New("build.concurrency must be positive")
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	return nil
}

func (c *Config) validateParser() error {
	for _, field := range c.Parser.PerTuneFields {
		if len(field) != 1 || !isASCIILetter(field[0]) {
			return fmt.Errorf("parser.per_tune_fields: %q must be a single letter", field)
		}
	}
	return nil
}

func (c *Config) validateFolders() error {
	names := make(map[string]int, len(c.Folders))
	for i, f := range c.Folders {
		if f.Name == "" {
			return fmt.Errorf("folders[%d].name must be set", i)
		}
		if f.Source == "" {
			return fmt.Errorf("folders[%d].source must be set", i)
		}
		switch f.Format {
		case FormatABC, FormatLaTeX:
		default:
			return fmt.Errorf("folders[%d].format: unsupported value %q (want %q or %q)", i, f.Format, FormatABC, FormatLaTeX)
		}
		key := strings.ToLower(f.Name)
		if prev, dup := names[key]; dup {
			return fmt.Errorf("folders[%d].name %q duplicates folders[%d]", i, f.Name, prev)
		}
		names[key] = i
	}
	return nil
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
