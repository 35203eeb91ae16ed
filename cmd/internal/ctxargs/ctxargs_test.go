package ctxargs_test

import (
	"strings"
	"testing"

	"github.com/dev0psfyi/website/cmd/internal/ctxargs"
)

func TestResolve_StaticValues(t *testing.T) {
	t.Parallel()
	got, err := ctxargs.Resolve(map[string]string{"siteops-redirect-store": "kvs"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got["siteops-redirect-store"] != "kvs" {
		t.Errorf("got %q, want %q", got["siteops-redirect-store"], "kvs")
	}
}

func TestResolve_Placeholders(t *testing.T) {
	t.Parallel()
	raw := map[string]string{
		"siteops-version":        "{{version}}",
		"siteops-hosted-zone-id": "{{hosted-zone-id}}",
		"siteops-description":    "{{hosted-name}} v{{version}}",
	}
	values := map[string]string{
		"version":        "1.2.45",
		"hosted-zone-id": "Z0123",
		"hosted-name":    "dev0ps.fyi",
	}
	got, err := ctxargs.Resolve(raw, values)
	if err != nil {
		t.Fatal(err)
	}
	if got["siteops-version"] != "1.2.45" {
		t.Errorf("version: got %q", got["siteops-version"])
	}
	if got["siteops-hosted-zone-id"] != "Z0123" {
		t.Errorf("hosted zone: got %q", got["siteops-hosted-zone-id"])
	}
	if got["siteops-description"] != "dev0ps.fyi v1.2.45" {
		t.Errorf("description: got %q", got["siteops-description"])
	}
}

func TestResolve_UnknownPlaceholder(t *testing.T) {
	t.Parallel()
	_, err := ctxargs.Resolve(map[string]string{"k": "{{nonexistent}}"}, map[string]string{"version": "1"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "nonexistent") {
		t.Errorf("error should mention the placeholder, got: %v", err)
	}
}

func TestArgs_Sorted(t *testing.T) {
	t.Parallel()
	args, err := ctxargs.Args(map[string]string{
		"siteops-version":        "{{version}}",
		"siteops-hosted-name":    "dev0ps.fyi",
		"siteops-redirect-store": "kvs",
	}, map[string]string{"version": "0.0.1"})
	if err != nil {
		t.Fatal(err)
	}
	want := "-c siteops-hosted-name=dev0ps.fyi -c siteops-redirect-store=kvs -c siteops-version=0.0.1"
	if got := strings.Join(args, " "); got != want {
		t.Errorf("Args() = %q, want %q", got, want)
	}
}

func TestArgs_Empty(t *testing.T) {
	t.Parallel()
	args, err := ctxargs.Args(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
}
