// Package cdkctx reads the siteops context of the CDK app from its cdk.json,
// so the CLI can name stacks without synthesizing.
package cdkctx

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/dev0psfyi/website/sitecdk/sitecdkutil"
)

// CDKContext is the subset of the CDK context the CLI needs.
type CDKContext struct {
	Qualifier     string
	PrimaryRegion string
	Deployments   []string
}

// Load reads cdk.json in cdkDir.
func Load(cdkDir string) (*CDKContext, error) {
	cdkJSON := filepath.Join(cdkDir, "cdk.json")
	data, err := os.ReadFile(cdkJSON)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", cdkJSON)
	}

	var cfg struct {
		Context map[string]json.RawMessage `json:"context"`
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", cdkJSON)
	}

	var cctx CDKContext
	if cctx.Qualifier, err = getString(cfg.Context, "qualifier"); err != nil {
		return nil, errors.Wrapf(err, "in %s", cdkJSON)
	}
	if cctx.PrimaryRegion, err = getString(cfg.Context, "primary-region"); err != nil {
		return nil, errors.Wrapf(err, "in %s", cdkJSON)
	}
	if !sitecdkutil.IsKnownRegion(cctx.PrimaryRegion) {
		return nil, errors.Newf("unknown primary region %q in %s", cctx.PrimaryRegion, cdkJSON)
	}
	if cctx.Deployments, err = getStringSlice(cfg.Context, "deployments"); err != nil {
		return nil, errors.Wrapf(err, "in %s", cdkJSON)
	}
	return &cctx, nil
}

// IsValidDeployment reports whether name is one of the deployments.
func (c *CDKContext) IsValidDeployment(name string) bool {
	return slices.Contains(c.Deployments, name)
}

// SharedStackName is the name of the shared stack.
func (c *CDKContext) SharedStackName() string {
	return sitecdkutil.SharedStackName(c.Qualifier, sitecdkutil.RegionIdentFor(c.PrimaryRegion))
}

// DeploymentStackName is the name of a deployment stack.
func (c *CDKContext) DeploymentStackName(deployment string) string {
	return sitecdkutil.DeploymentStackName(c.Qualifier, sitecdkutil.RegionIdentFor(c.PrimaryRegion), deployment)
}

func getString(m map[string]json.RawMessage, name string) (string, error) {
	key := sitecdkutil.ContextPrefix + name
	raw, ok := m[key]
	if !ok {
		return "", errors.Newf("context key %q is not set", key)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", errors.Newf("context key %q must be a string", key)
	}
	return s, nil
}

func getStringSlice(m map[string]json.RawMessage, name string) ([]string, error) {
	key := sitecdkutil.ContextPrefix + name
	raw, ok := m[key]
	if !ok {
		return nil, errors.Newf("context key %q is not set", key)
	}
	var ss []string
	if err := json.Unmarshal(raw, &ss); err != nil {
		return nil, errors.Newf("context key %q must be an array of strings", key)
	}
	return ss, nil
}
