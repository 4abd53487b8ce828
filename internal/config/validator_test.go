package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidator(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "extensions_config.json"), []byte(`{"extensions": {"ext1": {"url": "u"}}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	compose := filepath.Join(root, "docker-compose.yaml")
	if err := os.WriteFile(compose, []byte("services:\n  c:\n    environment:\n      - CHROME_CLI=\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	cfg.ExtensionsDir = root
	cfg.Compose.File = compose
	cfg.Compose.EnvKey = "CHROME_CLI"

	results := NewValidator(cfg).Validate()
	if HasErrors(results) {
		t.Fatalf("unexpected errors: %+v", results)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 checks, got %d", len(results))
	}

	cfg.Compose.EnvKey = "MISSING"
	results = NewValidator(cfg).Validate()
	if ErrorCount(results) != 1 {
		t.Errorf("expected 1 error, got %+v", results)
	}
}

func TestValidator_MissingRootAndDeclarations(t *testing.T) {
	cfg := Default()
	cfg.ExtensionsDir = filepath.Join(t.TempDir(), "missing")

	results := NewValidator(cfg).Validate()
	if WarningCount(results) != 1 {
		t.Errorf("expected missing root warning, got %+v", results)
	}
	if ErrorCount(results) != 1 {
		t.Errorf("expected missing declarations error, got %+v", results)
	}
}
