package main

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/dev0psfyi/website/cmd/internal/cfnvalidate"
	"github.com/dev0psfyi/website/cmd/internal/projcfg"
)

func testConfig() *projcfg.Config {
	return &projcfg.Config{
		Root: "/src/site",
		Site: projcfg.SiteConfig{
			HostedName:    "dev0ps.fyi",
			ServiceName:   "dev0ps-fyi",
			ContentDir:    "public",
			RedirectsFile: "redirects.yaml",
		},
		Cdk: projcfg.CdkConfig{
			Dir:        "infra/cdk",
			Deployment: "Prod",
			Context: map[string]string{
				"siteops-redirect-store": "kvs",
				"siteops-log-processing": "{{log-processing}}",
			},
		},
	}
}

func TestCdkArgs(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	values := contextValues(cfg, "0.0.12", "Prod", map[string]string{
		"hosted-zone-id": "Z0123",
		"log-processing": "true",
	})

	got, err := cdkArgs(cfg, values)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"-c", "siteops-hosted-name=dev0ps.fyi",
		"-c", "siteops-hosted-zone-id=Z0123",
		"-c", "siteops-log-processing=true",
		"-c", "siteops-redirect-store=kvs",
		"-c", "siteops-redirects-file=/src/site/redirects.yaml",
		"-c", "siteops-service-name=dev0ps-fyi",
		"-c", "siteops-version=0.0.12",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("cdkArgs() =\n%v\nwant\n%v", got, want)
	}
}

func TestCdkArgs_WithoutZoneAndWithProfile(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Cdk.Context = map[string]string{"siteops-version": "pinned"}
	cfg.Cdk.Profile = "site-admin"

	got, err := cdkArgs(cfg, contextValues(cfg, "0.0", "Prod", nil))
	if err != nil {
		t.Fatal(err)
	}
	joined := strings.Join(got, " ")
	if strings.Contains(joined, "hosted-zone-id") {
		t.Errorf("zone id must be omitted when unresolved: %s", joined)
	}
	if !strings.Contains(joined, "siteops-version=pinned") {
		t.Errorf("cdk.context must override site settings: %s", joined)
	}
	if !strings.HasSuffix(joined, "--profile site-admin") {
		t.Errorf("profile flag missing: %s", joined)
	}
}

func TestCdkArgs_UnknownPlaceholder(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	if _, err := cdkArgs(cfg, contextValues(cfg, "0.0", "Prod", nil)); err == nil {
		t.Fatal("expected error for unresolved {{log-processing}}")
	}
}

func TestRequireOutput(t *testing.T) {
	t.Parallel()

	outputs := map[string]string{"ContentBucket": "dev0ps.fyi", "LogQueueUrl": ""}
	if v, err := requireOutput(outputs, "ContentBucket"); err != nil || v != "dev0ps.fyi" {
		t.Errorf("requireOutput() = %q, %v", v, err)
	}
	if _, err := requireOutput(outputs, "LogQueueUrl"); err == nil {
		t.Error("expected error for empty output")
	}
	if _, err := requireOutput(outputs, "RedirectStoreArn"); err == nil {
		t.Error("expected error for missing output")
	}
}

func TestReportValidation(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	reportValidation(newReporter(&out, &errOut), []*cfnvalidate.Result{
		{Template: "devfyiUse1Shared.template.json"},
		{Template: "devfyiUse1Prod.template.json", Errors: []string{"E3001: bad type"}, Warnings: []string{"W2001: unused"}},
	})

	if !strings.Contains(out.String(), "FAILED") || !strings.Contains(out.String(), "warning: W2001: unused") {
		t.Errorf("stdout = %s", out.String())
	}
	if !strings.Contains(errOut.String(), "devfyiUse1Prod.template.json: error: E3001: bad type") {
		t.Errorf("stderr = %s", errOut.String())
	}
}
