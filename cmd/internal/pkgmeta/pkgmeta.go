// Package pkgmeta reads and stamps the site's package.json.
package pkgmeta

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Name returns the "name" field.
func Name(data []byte) (string, error) {
	if !gjson.ValidBytes(data) {
		return "", errors.New("package.json is not valid JSON")
	}
	name := gjson.GetBytes(data, "name")
	if !name.Exists() || name.String() == "" {
		return "", errors.New("package.json has no name")
	}
	return name.String(), nil
}

// SetVersion returns data with the "version" field set, leaving every other
// field and the key order untouched.
func SetVersion(data []byte, version string) ([]byte, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("package.json is not valid JSON")
	}
	out, err := sjson.SetBytes(data, "version", version)
	if err != nil {
		return nil, errors.Wrap(err, "set version")
	}
	return out, nil
}

// StampFile writes version into the package file at path and returns the
// package name.
func StampFile(path, version string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", path)
	}
	name, err := Name(data)
	if err != nil {
		return "", errors.Wrapf(err, "%s", path)
	}
	out, err := SetVersion(data, version)
	if err != nil {
		return "", errors.Wrapf(err, "%s", path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", errors.Wrapf(err, "stat %s", path)
	}
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return "", errors.Wrapf(err, "writing %s", path)
	}
	return name, nil
}
