package testsupport

import (
	"path/filepath"
	"testing"

	"unify/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithSeparator selects the UID separator ("-" or "_").
func WithSeparator(sep string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Normalize.Separator = sep
	}
}

// WithoutDiacritics disables diacritic folding.
func WithoutDiacritics() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Normalize.FoldDiacritics = false
	}
}

// WithExtensions restricts scans to the given lowercase extensions.
func WithExtensions(exts ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scan.Extensions = exts
	}
}

// WithHiddenFiles makes scans include dot files and directories.
func WithHiddenFiles() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scan.IncludeHidden = true
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
