package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"unify/internal/config"
	"unify/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("UNIFY_DATA_DIR", "")
	t.Setenv("UNIFY_LOG_LEVEL", "")

	configPath := filepath.Join(base, "unify.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, env *cliTestEnv, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var in io.Reader = strings.NewReader(stdin)
	cmd.SetIn(in)
	cmd.SetArgs(append([]string{"--config", env.configPath, "--log-level", "error"}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	exts := make([]string, 0, len(cfg.Scan.Extensions))
	for _, ext := range cfg.Scan.Extensions {
		exts = append(exts, fmt.Sprintf("%q", ext))
	}
	content := fmt.Sprintf(
		"[paths]\ndata_dir = %q\nlog_dir = %q\n\n[normalize]\nfold_diacritics = %t\nseparator = %q\n\n[scan]\ninclude_hidden = %t\nextensions = [%s]\n",
		cfg.Paths.DataDir,
		cfg.Paths.LogDir,
		cfg.Normalize.FoldDiacritics,
		cfg.Normalize.Separator,
		cfg.Scan.IncludeHidden,
		strings.Join(exts, ", "),
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
