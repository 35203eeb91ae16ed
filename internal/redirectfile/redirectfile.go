// Package redirectfile loads redirects.yaml, the source of the static
// redirect map and the dynamic KeyValueStore entries.
//
//	static:
//	  /cv: /about/
//	dynamic:
//	  /talks: https://talks.example.com/
package redirectfile

import (
	"bytes"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// KeyValueStore limits.
const (
	MaxKeySize   = 512
	MaxValueSize = 1024
)

// File is the parsed content of a redirects file.
type File struct {
	// Static entries are compiled into the edge function.
	Static map[string]string `yaml:"static"`
	// Dynamic entries are synced to the KeyValueStore.
	Dynamic map[string]string `yaml:"dynamic"`
}

// Load reads and validates the redirects file at path. A missing file yields
// an empty File.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &File{Static: map[string]string{}, Dynamic: map[string]string{}}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read redirects file")
	}
	f, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return f, nil
}

// Parse decodes and validates redirects YAML.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "parse redirects")
	}
	if f.Static == nil {
		f.Static = map[string]string{}
	}
	if f.Dynamic == nil {
		f.Dynamic = map[string]string{}
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks every entry and rejects paths defined in both sections.
func (f *File) Validate() error {
	var errs []error
	for _, section := range []struct {
		name    string
		entries map[string]string
	}{
		{"static", f.Static},
		{"dynamic", f.Dynamic},
	} {
		for _, path := range slices.Sorted(maps.Keys(section.entries)) {
			if err := validateEntry(path, section.entries[path]); err != nil {
				errs = append(errs, errors.Wrapf(err, "%s", section.name))
			}
		}
	}
	for _, path := range slices.Sorted(maps.Keys(f.Static)) {
		if _, ok := f.Dynamic[path]; ok {
			errs = append(errs, errors.Newf("%q is defined in both static and dynamic", path))
		}
	}
	return errors.Join(errs...)
}

func validateEntry(path, target string) error {
	switch {
	case !strings.HasPrefix(path, "/"):
		return errors.Newf("%q: path must start with /", path)
	case len(path) > MaxKeySize:
		return errors.Newf("%q: path exceeds %d bytes", path, MaxKeySize)
	case target == "":
		return errors.Newf("%q: empty target", path)
	case len(target) > MaxValueSize:
		return errors.Newf("%q: target exceeds %d bytes", path, MaxValueSize)
	}
	return nil
}
