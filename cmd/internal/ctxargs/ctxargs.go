// Package ctxargs turns the [cdk.context] table of siteops.toml into cdk
// "-c key=value" arguments, filling in {{name}} placeholders.
package ctxargs

import (
	"regexp"
	"sort"

	"github.com/cockroachdb/errors"
)

var placeholderRe = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Resolve replaces the placeholders in every value of raw with values.
func Resolve(raw map[string]string, values map[string]string) (map[string]string, error) {
	resolved := make(map[string]string, len(raw))
	for k, v := range raw {
		val, err := interpolate(v, values)
		if err != nil {
			return nil, errors.Wrapf(err, "context %q", k)
		}
		resolved[k] = val
	}
	return resolved, nil
}

// Args resolves raw and returns "-c key=value" pairs sorted by key.
func Args(raw map[string]string, values map[string]string) ([]string, error) {
	resolved, err := Resolve(raw, values)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(resolved))
	for k := range resolved {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		args = append(args, "-c", k+"="+resolved[k])
	}
	return args, nil
}

func interpolate(val string, values map[string]string) (string, error) {
	var resolveErr error
	result := placeholderRe.ReplaceAllStringFunc(val, func(match string) string {
		key := placeholderRe.FindStringSubmatch(match)[1]
		v, ok := values[key]
		if !ok {
			resolveErr = errors.Newf("unknown placeholder %q", key)
			return match
		}
		return v
	})
	if resolveErr != nil {
		return "", resolveErr
	}
	return result, nil
}
