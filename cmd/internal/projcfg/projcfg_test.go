package projcfg_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/dev0psfyi/website/cmd/internal/projcfg"
	"github.com/dev0psfyi/website/cmd/internal/testutil"
)

const validConfig = `
[site]
hosted_name = "dev0ps.fyi"
service_name = "dev0ps-fyi"
content_dir = "public"

[cdk]
dir = "infra/cdk"

[cdk.context]
siteops-version = "{{version}}"
`

func TestLoadFrom_Defaults(t *testing.T) {
	t.Parallel()

	root := testutil.Setup(t, map[string]string{projcfg.FileName: validConfig})
	cfg, err := projcfg.LoadFrom(root)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Cdk.Deployment != "Prod" {
		t.Errorf("Deployment = %q", cfg.Cdk.Deployment)
	}
	if cfg.Cdk.ProductionRef != "refs/heads/main" {
		t.Errorf("ProductionRef = %q", cfg.Cdk.ProductionRef)
	}
	if cfg.CdkDir() != filepath.Join(root, "infra/cdk") {
		t.Errorf("CdkDir() = %q", cfg.CdkDir())
	}
	if cfg.PackageFile() != filepath.Join(root, "package.json") {
		t.Errorf("PackageFile() = %q", cfg.PackageFile())
	}
	if cfg.RedirectsFile() != filepath.Join(root, "redirects.yaml") {
		t.Errorf("RedirectsFile() = %q", cfg.RedirectsFile())
	}
	if cfg.Cdk.Context["siteops-version"] != "{{version}}" {
		t.Errorf("Context = %v", cfg.Cdk.Context)
	}
	if cfg.AwsArgs() != nil {
		t.Errorf("AwsArgs() = %v, want nil", cfg.AwsArgs())
	}
}

func TestLoadFrom_Profile(t *testing.T) {
	t.Parallel()

	root := testutil.Setup(t, map[string]string{
		projcfg.FileName: strings.Replace(validConfig, `dir = "infra/cdk"`, "dir = \"infra/cdk\"\nprofile = \"site\"", 1),
	})
	cfg, err := projcfg.LoadFrom(root)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(cfg.AwsArgs(), " "); got != "--profile site" {
		t.Errorf("AwsArgs() = %q", got)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing hosted name",
			content: "[site]\nservice_name = \"x\"\ncontent_dir = \"public\"\n[cdk]\ndir = \"infra\"\n",
			wantErr: "HostedName",
		},
		{
			name:    "invalid hosted name",
			content: "[site]\nhosted_name = \"not a domain\"\nservice_name = \"x\"\ncontent_dir = \"public\"\n[cdk]\ndir = \"infra\"\n",
			wantErr: "fqdn",
		},
		{
			name:    "absolute cdk dir",
			content: "[site]\nhosted_name = \"dev0ps.fyi\"\nservice_name = \"x\"\ncontent_dir = \"public\"\n[cdk]\ndir = \"/infra\"\n",
			wantErr: "cdk.dir must be relative",
		},
		{
			name:    "malformed toml",
			content: "[site\n",
			wantErr: "parsing siteops.toml",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := testutil.Setup(t, map[string]string{projcfg.FileName: tt.content})
			_, err := projcfg.LoadFrom(root)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := projcfg.LoadFrom(t.TempDir()); err == nil {
		t.Fatal("expected error for missing file")
	}
}
