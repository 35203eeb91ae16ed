package pkgmeta_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/dev0psfyi/website/cmd/internal/pkgmeta"
	"github.com/dev0psfyi/website/cmd/internal/testutil"
)

const packageJSON = `{
  "name": "dev0ps-fyi",
  "version": "0.0.0",
  "private": true,
  "scripts": {"build": "hugo --minify"}
}
`

func TestName(t *testing.T) {
	t.Parallel()

	name, err := pkgmeta.Name([]byte(packageJSON))
	if err != nil {
		t.Fatal(err)
	}
	if name != "dev0ps-fyi" {
		t.Errorf("Name() = %q", name)
	}

	if _, err := pkgmeta.Name([]byte(`{"version": "1"}`)); err == nil {
		t.Error("expected error without name")
	}
	if _, err := pkgmeta.Name([]byte(`{`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestSetVersion_PreservesFields(t *testing.T) {
	t.Parallel()

	out, err := pkgmeta.SetVersion([]byte(packageJSON), "1.2.45")
	if err != nil {
		t.Fatal(err)
	}
	got := string(out)
	if !strings.Contains(got, `"version": "1.2.45"`) {
		t.Errorf("version not set in place:\n%s", got)
	}
	for _, want := range []string{`"name": "dev0ps-fyi"`, `"private": true`, `"build": "hugo --minify"`} {
		if !strings.Contains(got, want) {
			t.Errorf("output should keep %s:\n%s", want, got)
		}
	}
	if strings.Index(got, `"name"`) > strings.Index(got, `"version"`) {
		t.Errorf("key order changed:\n%s", got)
	}
}

func TestSetVersion_AddsMissingField(t *testing.T) {
	t.Parallel()

	out, err := pkgmeta.SetVersion([]byte(`{"name":"site"}`), "0.0.3")
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"name":"site","version":"0.0.3"}` {
		t.Errorf("SetVersion() = %s", out)
	}
}

func TestStampFile(t *testing.T) {
	t.Parallel()

	root := testutil.Setup(t, map[string]string{"package.json": packageJSON})
	path := filepath.Join(root, "package.json")

	name, err := pkgmeta.StampFile(path, "0.42.7")
	if err != nil {
		t.Fatal(err)
	}
	if name != "dev0ps-fyi" {
		t.Errorf("name = %q", name)
	}
	if got := testutil.ReadFile(t, path); !strings.Contains(got, `"version": "0.42.7"`) {
		t.Errorf("file not stamped:\n%s", got)
	}
}

func TestStampFile_Missing(t *testing.T) {
	t.Parallel()

	if _, err := pkgmeta.StampFile(filepath.Join(t.TempDir(), "package.json"), "1.0.0"); err == nil {
		t.Fatal("expected error for a missing file")
	}
}
