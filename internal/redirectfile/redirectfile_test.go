package redirectfile_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dev0psfyi/website/internal/redirectfile"
)

func TestParse(t *testing.T) {
	t.Parallel()

	f, err := redirectfile.Parse([]byte(`
static:
  /cv: /about/
dynamic:
  /talks: https://talks.example.com/
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Static["/cv"] != "/about/" {
		t.Errorf("unexpected static map: %v", f.Static)
	}
	if f.Dynamic["/talks"] != "https://talks.example.com/" {
		t.Errorf("unexpected dynamic map: %v", f.Dynamic)
	}
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	f, err := redirectfile.Parse(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Static == nil || f.Dynamic == nil {
		t.Error("expected non-nil maps")
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"relative path", "static:\n  cv: /about/\n", "must start with /"},
		{"empty target", "dynamic:\n  /x: \"\"\n", "empty target"},
		{"duplicate", "static:\n  /x: /a\ndynamic:\n  /x: /b\n", "both static and dynamic"},
		{"unknown field", "redirects:\n  /x: /a\n", "redirects"},
		{"long key", "dynamic:\n  /" + strings.Repeat("k", 600) + ": /a\n", "exceeds 512 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := redirectfile.Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	f, err := redirectfile.Load(filepath.Join(t.TempDir(), "redirects.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Static) != 0 || len(f.Dynamic) != 0 {
		t.Error("expected empty file")
	}
}

func TestLoad_ReportsPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "redirects.yaml")
	if err := os.WriteFile(path, []byte("static:\n  nope: /a\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := redirectfile.Load(path)
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error mentioning %s, got %v", path, err)
	}
}
