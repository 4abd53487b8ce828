package remove

import (
	"os"
	"strings"
	"testing"

	"github.com/indaco/crxsync/internal/config"
	"github.com/indaco/crxsync/internal/testutils"
	"github.com/urfave/cli/v3"
)

func setup(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	testutils.WriteTempDeclarations(t, root, "extensions_config.json", `{
    "extensions": {
        "ext1": {"name": "One", "version": "1.0", "url": "https://example.com/1.crx"},
        "ext2": {"name": "Two", "version": "2.0", "url": "https://example.com/2.crx"}
    }
}
`)
	cfg := config.Default()
	cfg.ExtensionsDir = root
	return cfg
}

func run(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	appCli := testutils.BuildCLIForTests([]*cli.Command{Run(cfg)})
	var runErr error
	out, err := testutils.CaptureStdout(func() {
		runErr = testutils.RunCLITestAllowError(t, appCli, append([]string{"crxsync", "remove"}, args...), "")
	})
	if err != nil {
		t.Fatalf("failed to capture stdout: %v", err)
	}
	return out, runErr
}

func TestRemoveCmd_Success(t *testing.T) {
	cfg := setup(t)

	out, err := run(t, cfg, "--id", "ext1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `Extension "ext1" removed.`) {
		t.Errorf("unexpected output:\n%s", out)
	}

	data, err := os.ReadFile(cfg.DeclarationsPath())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), `"ext1"`) {
		t.Errorf("ext1 still declared:\n%s", data)
	}
	if !strings.Contains(string(data), `"ext2": {"name": "Two"`) {
		t.Errorf("other entries should keep their formatting:\n%s", data)
	}
}

func TestRemoveCmd_NotFound(t *testing.T) {
	cfg := setup(t)

	out, err := run(t, cfg, "--id", "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `extension "nope" not found`) {
		t.Errorf("expected warning, got:\n%s", out)
	}
}

func TestRemoveCmd_MissingID(t *testing.T) {
	cfg := setup(t)

	_, err := run(t, cfg)
	if err == nil || !strings.Contains(err.Error(), "please provide an extension id") {
		t.Errorf("expected missing id error, got %v", err)
	}
}
