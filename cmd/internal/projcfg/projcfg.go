// Package projcfg loads siteops.toml from the project root.
package projcfg

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

// FileName is searched for in the working directory and its parents.
const FileName = "siteops.toml"

// Config is the parsed project file.
type Config struct {
	Root string     `toml:"-"`
	Site SiteConfig `toml:"site"`
	Cdk  CdkConfig  `toml:"cdk"`
}

// SiteConfig describes the website.
type SiteConfig struct {
	HostedName    string `toml:"hosted_name" validate:"required,fqdn"`
	ServiceName   string `toml:"service_name" validate:"required"`
	ContentDir    string `toml:"content_dir" validate:"required"`
	PackageFile   string `toml:"package_file"`
	RedirectsFile string `toml:"redirects_file"`
}

// CdkConfig describes the CDK app.
type CdkConfig struct {
	Dir           string `toml:"dir" validate:"required"`
	Deployment    string `toml:"deployment" validate:"required"`
	ProductionRef string `toml:"production_ref" validate:"required"`
	Profile       string `toml:"profile"`
	// Context is passed to cdk as -c key=value. Values may reference
	// {{version}}, {{hosted-zone-id}} and the other values siteops resolves.
	Context map[string]string `toml:"context"`
}

// CdkDir returns the absolute CDK app directory.
func (c *Config) CdkDir() string {
	return filepath.Join(c.Root, c.Cdk.Dir)
}

// ContentDir returns the absolute content directory.
func (c *Config) ContentDir() string {
	return filepath.Join(c.Root, c.Site.ContentDir)
}

// PackageFile returns the absolute package.json path.
func (c *Config) PackageFile() string {
	return filepath.Join(c.Root, c.Site.PackageFile)
}

// RedirectsFile returns the absolute redirects file path.
func (c *Config) RedirectsFile() string {
	return filepath.Join(c.Root, c.Site.RedirectsFile)
}

// AwsArgs returns the profile flag for the aws and cdk CLIs, if any.
func (c *Config) AwsArgs() []string {
	if c.Cdk.Profile == "" {
		return nil
	}
	return []string{"--profile", c.Cdk.Profile}
}

// Load finds and parses the project file.
func Load() (*Config, error) {
	root, err := findRoot()
	if err != nil {
		return nil, err
	}
	return LoadFrom(root)
}

// LoadFrom parses the project file in root.
func LoadFrom(root string) (*Config, error) {
	cfg := Config{
		Site: SiteConfig{
			PackageFile:   "package.json",
			RedirectsFile: "redirects.yaml",
		},
		Cdk: CdkConfig{
			Deployment:    "Prod",
			ProductionRef: "refs/heads/main",
		},
	}
	if _, err := toml.DecodeFile(filepath.Join(root, FileName), &cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", FileName)
	}
	cfg.Root = root

	if err := cfg.validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid %s", FileName)
	}
	return &cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *Config) validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	for name, dir := range map[string]string{
		"cdk.dir":          c.Cdk.Dir,
		"site.content_dir": c.Site.ContentDir,
	} {
		if filepath.IsAbs(dir) {
			return errors.Newf("%s must be relative, got %q", name, dir)
		}
	}
	return nil
}

func findRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.Newf("could not find %s in any parent directory", FileName)
		}
		dir = parent
	}
}
