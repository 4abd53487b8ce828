// Package testutils holds helpers shared by command tests.
package testutils

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v3"
)

// CaptureStdout runs fn and returns everything it wrote to os.Stdout.
func CaptureStdout(fn func()) (string, error) {
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		return "", err
	}
	os.Stdout = w

	done := make(chan struct{})
	var buf bytes.Buffer
	var copyErr error
	go func() {
		_, copyErr = io.Copy(&buf, r)
		close(done)
	}()

	defer func() {
		os.Stdout = old
	}()
	fn()

	_ = w.Close()
	<-done
	_ = r.Close()
	return buf.String(), copyErr
}

// BuildCLIForTests wraps cmds in a minimal root command.
func BuildCLIForTests(cmds []*cli.Command) *cli.Command {
	return &cli.Command{
		Name:     "crxsync",
		Commands: cmds,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-color"},
		},
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
}

// RunCLITest runs app with args from workDir and fails the test on error.
func RunCLITest(t *testing.T, app *cli.Command, args []string, workDir string) {
	t.Helper()
	if err := RunCLITestAllowError(t, app, args, workDir); err != nil {
		t.Fatalf("app.Run failed: %v", err)
	}
}

// RunCLITestAllowError runs app with args from workDir and returns its error.
func RunCLITestAllowError(t *testing.T, app *cli.Command, args []string, workDir string) error {
	t.Helper()
	if workDir != "" {
		t.Chdir(workDir)
	}
	return app.Run(context.Background(), args)
}

// WriteTempDeclarations writes a declarations file named name into dir.
func WriteTempDeclarations(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write declarations: %v", err)
	}
	return path
}

// WriteTempConfig writes a .crxsync.yaml into dir.
func WriteTempConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ".crxsync.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}
