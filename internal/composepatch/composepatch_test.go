package composepatch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestReplaceAssignment(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		key       string
		value     string
		want      string
		wantFound bool
	}{
		{
			name:      "environment list entry",
			content:   "services:\n  chromium:\n    environment:\n      - TZ=UTC\n      - CHROME_CLI=--load-extension=/old\n",
			key:       "CHROME_CLI",
			value:     "--load-extension=/config/extensions/a",
			want:      "services:\n  chromium:\n    environment:\n      - TZ=UTC\n      - CHROME_CLI=--load-extension=/config/extensions/a\n",
			wantFound: true,
		},
		{
			name:      "quoted list entry",
			content:   "    environment:\n      - \"CHROME_CLI=\"\n",
			key:       "CHROME_CLI",
			value:     "--load-extension=/x/a,/x/b",
			want:      "    environment:\n      - \"CHROME_CLI=--load-extension=/x/a,/x/b\"\n",
			wantFound: true,
		},
		{
			name:      "mapping entry",
			content:   "    environment:\n      CHROME_CLI: --load-extension=/old\n      TZ: UTC\n",
			key:       "CHROME_CLI",
			value:     "--load-extension=/x/a",
			want:      "    environment:\n      CHROME_CLI: --load-extension=/x/a\n      TZ: UTC\n",
			wantFound: true,
		},
		{
			name:      "quoted mapping entry",
			content:   "      CHROME_CLI: '--load-extension=/old'\n",
			key:       "CHROME_CLI",
			value:     "--load-extension=/x/a",
			want:      "      CHROME_CLI: '--load-extension=/x/a'\n",
			wantFound: true,
		},
		{
			name:      "does not match key prefix",
			content:   "      - CHROME_CLI_EXTRA=1\n",
			key:       "CHROME_CLI",
			value:     "v",
			want:      "      - CHROME_CLI_EXTRA=1\n",
			wantFound: false,
		},
		{
			name:      "keeps CRLF line endings",
			content:   "env:\r\n  - CHROME_CLI=old\r\n",
			key:       "CHROME_CLI",
			value:     "new",
			want:      "env:\r\n  - CHROME_CLI=new\r\n",
			wantFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := replaceAssignment(tt.content, tt.key, tt.value)
			if found != tt.wantFound {
				t.Errorf("found = %v, want %v", found, tt.wantFound)
			}
			if got != tt.want {
				t.Errorf("result mismatch.\ngot:\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestPatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docker-compose.yaml")
	initial := "# managed by hand\nservices:\n  chromium:\n    image: lscr.io/linuxserver/chromium\n    environment:\n      - CHROME_CLI=\n"
	if err := os.WriteFile(path, []byte(initial), 0o644); err != nil {
		t.Fatal(err)
	}

	changed, err := Patch(path, "CHROME_CLI", "--load-extension=/config/extensions/a")
	if err != nil || !changed {
		t.Fatalf("Patch() = %v, %v; want changed", changed, err)
	}
	data, _ := os.ReadFile(path)
	want := "# managed by hand\nservices:\n  chromium:\n    image: lscr.io/linuxserver/chromium\n    environment:\n      - CHROME_CLI=--load-extension=/config/extensions/a\n"
	if string(data) != want {
		t.Errorf("content mismatch.\ngot:\n%s\nwant:\n%s", data, want)
	}

	changed, err = Patch(path, "CHROME_CLI", "--load-extension=/config/extensions/a")
	if err != nil || changed {
		t.Errorf("repeated Patch() = %v, %v; want unchanged", changed, err)
	}
}

func TestPatch_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Patch(filepath.Join(dir, "missing.yaml"), "K", "v"); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(dir, "compose.yaml")
	if err := os.WriteFile(path, []byte("services: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Patch(path, "CHROME_CLI", "v"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestHasKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compose.yaml")
	if err := os.WriteFile(path, []byte("services:\n  c:\n    environment:\n      - CHROME_CLI=x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if found, err := HasKey(path, "CHROME_CLI"); err != nil || !found {
		t.Errorf("HasKey(CHROME_CLI) = %v, %v", found, err)
	}
	if found, err := HasKey(path, "OTHER"); err != nil || found {
		t.Errorf("HasKey(OTHER) = %v, %v", found, err)
	}
	if _, err := HasKey(filepath.Join(t.TempDir(), "missing"), "K"); err == nil {
		t.Error("expected error for missing file")
	}
}
