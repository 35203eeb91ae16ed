// Package version derives the site version from the CI environment.
package version

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

// Version of the siteops binary, set with -ldflags.
var Version = "dev"

var (
	notPullRequestRe = regexp.MustCompile(`(?i)false`)
	releaseRefRe     = regexp.MustCompile(`(?i)^(refs/heads/)?release[/-]`)
	releaseNumberRe  = regexp.MustCompile(`(?i)^(?:refs/heads/)?release[/-](\d+(?:\.\d+){0,3})$`)
)

// Inputs are the CI values a version is derived from. Empty means unset.
type Inputs struct {
	PullRequest string
	Ref         string
	BuildNumber string
}

// Derive returns "<major>.<minor>.<patch>":
//   - pull request builds get release 0.<pr>;
//   - refs other than release/X or release-X get release 0.0;
//   - release refs get the release number from the ref.
//
// The build number (0 when unset) is appended to the release and the result
// is cut to three parts, so release/1.2 build 45 yields 1.2.45 and
// release/1.2.3 yields 1.2.3.
func Derive(in Inputs) (string, error) {
	var release string
	switch {
	case in.PullRequest != "" && !notPullRequestRe.MatchString(in.PullRequest):
		release = "0." + in.PullRequest
	case in.Ref == "" || !releaseRefRe.MatchString(in.Ref):
		release = "0.0"
	default:
		m := releaseNumberRe.FindStringSubmatch(in.Ref)
		if m == nil {
			return "", errors.Newf("invalid release ref %q, expected release/<major>[.<minor>...]", in.Ref)
		}
		release = m[1]
	}

	build := in.BuildNumber
	if build == "" {
		build = "0"
	}
	parts := strings.Split(release+"."+build+".0.0.0.0", ".")
	return strings.Join(parts[:3], "."), nil
}
