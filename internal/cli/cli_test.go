package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/indaco/crxsync/internal/config"
	"github.com/indaco/crxsync/internal/testutils"
)

func TestNew_Commands(t *testing.T) {
	app := New(config.Default())

	want := []string{"sync", "init", "add", "remove", "list", "args", "doctor"}
	if len(app.Commands) != len(want) {
		t.Fatalf("expected %d commands, got %d", len(want), len(app.Commands))
	}
	for i, name := range want {
		if app.Commands[i].Name != name {
			t.Errorf("command %d = %q, want %q", i, app.Commands[i].Name, name)
		}
	}
	if !strings.HasPrefix(app.Version, "v") {
		t.Errorf("Version = %q", app.Version)
	}
}

func TestNew_LoadsConfigAndOverrides(t *testing.T) {
	dir := t.TempDir()
	cfgPath := testutils.WriteTempConfig(t, dir, "extensions-dir: "+filepath.Join(dir, "from-config")+"\nmount-prefix: /mnt/x\n")
	override := filepath.Join(dir, "from-flag")
	if err := os.MkdirAll(filepath.Join(override, "ext1"), 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	app := New(cfg)

	output, err := testutils.CaptureStdout(func() {
		if err := app.Run(context.Background(), []string{
			"crxsync", "--no-color", "--config", cfgPath, "--extensions-dir", override, "args",
		}); err != nil {
			t.Errorf("Run() error: %v", err)
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.ExtensionsDir != override {
		t.Errorf("ExtensionsDir = %q, want flag value %q", cfg.ExtensionsDir, override)
	}
	if cfg.MountPrefix != "/mnt/x" {
		t.Errorf("MountPrefix = %q, want value from config", cfg.MountPrefix)
	}
	if strings.TrimSpace(output) != "--load-extension=/mnt/x/ext1" {
		t.Errorf("unexpected output %q", output)
	}
}

func TestNew_ConfigError(t *testing.T) {
	old := config.LoadConfigFn
	config.LoadConfigFn = func(string) (*config.Config, error) { return nil, errors.New("boom") }
	t.Cleanup(func() { config.LoadConfigFn = old })

	app := New(config.Default())
	err := app.Run(context.Background(), []string{"crxsync", "list"})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected config error, got %v", err)
	}
}

func TestNew_DefaultActionSyncs(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "extensions")
	if err := os.MkdirAll(filepath.Join(root, "old"), 0o755); err != nil {
		t.Fatal(err)
	}
	testutils.WriteTempDeclarations(t, root, "extensions_config.json", `{"extensions": {}}`)
	cfgPath := testutils.WriteTempConfig(t, dir, "extensions-dir: "+root+"\n")

	app := New(config.Default())
	output, err := testutils.CaptureStdout(func() {
		if err := app.Run(context.Background(), []string{"crxsync", "--config", cfgPath, "--dry-run"}); err != nil {
			t.Errorf("Run() error: %v", err)
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(output, "Would remove old") {
		t.Errorf("expected dry run report, got:\n%s", output)
	}
	if _, err := os.Stat(filepath.Join(root, "old")); err != nil {
		t.Error("dry run must not remove anything")
	}
}
