// Package cienv reads the CI environment the deployment depends on.
package cienv

import (
	"regexp"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"github.com/dev0psfyi/website/cmd/internal/version"
)

// Env holds the CI variables. All are optional for local runs.
type Env struct {
	Ref         string `env:"GITHUB_REF"`
	RunNumber   string `env:"GITHUB_RUN_NUMBER"`
	Repository  string `env:"GITHUB_REPOSITORY"`
	PullRequest string `env:"GITHUB_PULL_REQUEST"`
}

// Load parses the process environment.
func Load() (*Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return nil, errors.Wrap(err, "parse CI environment")
	}
	return &e, nil
}

// Version derives the site version.
func (e *Env) Version() (string, error) {
	return version.Derive(version.Inputs{
		PullRequest: e.PullRequest,
		Ref:         e.Ref,
		BuildNumber: e.RunNumber,
	})
}

// IsProductionRef reports whether the build runs for productionRef.
func (e *Env) IsProductionRef(productionRef string) bool {
	return e.Ref != "" && e.Ref == productionRef
}

var nonAlphanumericRe = regexp.MustCompile(`[^a-zA-Z0-9]`)

// ChangeSetName returns "<repository>-<run number>" with every
// non-alphanumeric character of the repository replaced by '-'. fallback
// replaces an unset repository, the run number defaults to 1.
func (e *Env) ChangeSetName(fallback string) string {
	repo := e.Repository
	if repo == "" {
		repo = fallback
	}
	run := e.RunNumber
	if run == "" {
		run = "1"
	}
	return nonAlphanumericRe.ReplaceAllString(repo, "-") + "-" + run
}
