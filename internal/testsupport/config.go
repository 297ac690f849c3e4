package testsupport

import (
	"path/filepath"
	"testing"

	"tunefolder/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with a unique temp data directory per
// test. It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.APIBind = "127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithFolder writes content under the test base directory and registers it
// as a configured folder. The format is inferred from the file extension.
func WithFolder(name, file, content string) ConfigOption {
	return func(b *configBuilder) {
		b.t.Helper()
		source := filepath.Join(b.baseDir, "sources", file)
		WriteFile(b.t, source, content)
		b.cfg.Folders = append(b.cfg.Folders, config.FolderSource{
			Name:   name,
			Source: source,
			Format: config.InferFormat(source),
		})
	}
}

// WithConcurrency overrides the build concurrency.
func WithConcurrency(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Build.Concurrency = n
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
