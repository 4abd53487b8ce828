package declared

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extensions_config.json")

	created, err := Init(path)
	if err != nil || !created {
		t.Fatalf("Init() = %v, %v; want created", created, err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != emptyDocument {
		t.Errorf("content = %q", data)
	}

	if err := os.WriteFile(path, []byte("keep me"), 0o644); err != nil {
		t.Fatal(err)
	}
	created, err = Init(path)
	if err != nil || created {
		t.Fatalf("second Init() = %v, %v; want untouched", created, err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "keep me" {
		t.Error("Init() overwrote an existing file")
	}
}

func TestAddAndRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extensions_config.json")
	if _, err := Init(path); err != nil {
		t.Fatal(err)
	}

	ext := Extension{ID: "org.example.ext", Name: "Example", Version: "1.0", URL: "https://example.com/x.crx"}
	if err := Add(path, ext, false); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	exts, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(exts) != 1 || exts[0] != ext {
		t.Fatalf("Load() = %+v, want [%+v]", exts, ext)
	}

	if err := Add(path, ext, false); err == nil || !strings.Contains(err.Error(), "already declared") {
		t.Errorf("duplicate Add() error = %v", err)
	}

	ext.Version = "1.1"
	if err := Add(path, ext, true); err != nil {
		t.Fatalf("replacing Add() error: %v", err)
	}
	exts, _ = Load(path)
	if exts[0].Version != "1.1" {
		t.Errorf("Version = %q, want 1.1", exts[0].Version)
	}

	if err := Remove(path, ext.ID); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	exts, _ = Load(path)
	if len(exts) != 0 {
		t.Errorf("expected no extensions after Remove, got %+v", exts)
	}

	if err := Remove(path, ext.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Remove() error = %v, want ErrNotFound", err)
	}
}

func TestAdd_PreservesOtherContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extensions_config.json")
	initial := `{
    "extensions": {
        "ext1": {
            "name": "First",
            "version": "2.0",
            "url": "https://example.com/a.crx"
        }
    }
}
`
	if err := os.WriteFile(path, []byte(initial), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Add(path, Extension{ID: "ext2", URL: "https://example.com/b.crx"}, false); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "            \"name\": \"First\",\n") {
		t.Errorf("existing entry formatting was not preserved:\n%s", data)
	}
}

func TestAdd_RejectsInvalidEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extensions_config.json")
	if _, err := Init(path); err != nil {
		t.Fatal(err)
	}
	if err := Add(path, Extension{ID: "ext1"}, false); err == nil {
		t.Fatal("expected error for missing url")
	}
	data, _ := os.ReadFile(path)
	if string(data) != emptyDocument {
		t.Error("invalid Add() modified the file")
	}
}

func TestAdd_RejectsReservedID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extensions_config.json")
	if _, err := Init(path); err != nil {
		t.Fatal(err)
	}

	ext := Extension{ID: "extensions_config.json", Version: "1.0", URL: "https://example.com/x.crx"}
	err := Add(path, ext, false, "temp", "extensions_config.json")
	if err == nil || !strings.Contains(err.Error(), "reserved") {
		t.Fatalf("expected reserved id error, got %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != emptyDocument {
		t.Error("rejected Add() modified the file")
	}
}

func TestEdit_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extensions.yaml")
	if err := os.WriteFile(path, []byte("extensions: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Add(path, Extension{ID: "x", URL: "u"}, false); err == nil {
		t.Error("expected error editing YAML declarations")
	}
	if err := Remove(path, "x"); err == nil {
		t.Error("expected error editing YAML declarations")
	}
}
