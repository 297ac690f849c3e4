package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// normalize expands paths and fills blanks. Relative folder sources resolve
// against baseDir, the directory holding the config file.
func (c *Config) normalize(baseDir string) error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeParser()
	if err := c.normalizeFolders(baseDir); err != nil {
		return err
	}
	if c.Build.Concurrency <= 0 {
		c.Build.Concurrency = defaultBuildConcurrency
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("TUNEFOLDER_DATA_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeParser() {
	if c.Parser.PerTuneFields == nil {
		c.Parser.PerTuneFields = Default().Parser.PerTuneFields
		return
	}
	fields := make([]string, 0, len(c.Parser.PerTuneFields))
	seen := make(map[string]struct{}, len(c.Parser.PerTuneFields))
	for _, field := range c.Parser.PerTuneFields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if _, exists := seen[field]; exists {
			continue
		}
		seen[field] = struct{}{}
		fields = append(fields, field)
	}
	c.Parser.PerTuneFields = fields
}

func (c *Config) normalizeFolders(baseDir string) error {
	for i := range c.Folders {
		f := &c.Folders[i]
		f.Name = strings.TrimSpace(f.Name)
		f.Source = strings.TrimSpace(f.Source)
		if f.Source != "" && !strings.HasPrefix(f.Source, "~") && !filepath.IsAbs(f.Source) && baseDir != "" {
			f.Source = filepath.Join(baseDir, f.Source)
		}
		var err error
		if f.Source, err = expandPath(f.Source); err != nil {
			return fmt.Errorf("folders[%d].source: %w", i, err)
		}
		f.Format = strings.ToLower(strings.TrimSpace(f.Format))
		if f.Format == "" {
			f.Format = InferFormat(f.Source)
		}
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
