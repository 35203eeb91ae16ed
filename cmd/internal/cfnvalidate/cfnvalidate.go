// Package cfnvalidate checks synthesized CloudFormation templates before
// they are deployed.
package cfnvalidate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/lex00/cfn-lint-go/pkg/lint"
	"gopkg.in/yaml.v3"
)

// TemplateSuffix is the suffix of the templates cdk synth writes.
const TemplateSuffix = ".template.json"

// Result holds the findings for one template.
type Result struct {
	Template string
	Errors   []string
	Warnings []string
}

// Passed reports whether the template has no errors. Warnings are allowed.
func (r *Result) Passed() bool {
	return len(r.Errors) == 0
}

// Structure checks that the template parses and has a Resources mapping.
func Structure(templatePath string) error {
	data, err := os.ReadFile(templatePath)
	if err != nil {
		return errors.Wrapf(err, "reading template %s", templatePath)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.Wrap(err, "parsing template")
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return errors.New("invalid template document")
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return errors.New("template root is not a mapping")
	}
	resources := findMappingValue(root, "Resources")
	if resources == nil {
		return errors.New("template has no Resources section")
	}
	if resources.Kind != yaml.MappingNode || len(resources.Content) == 0 {
		return errors.New("template Resources section is empty")
	}
	return nil
}

// Template runs the structural check and cfn-lint on one template.
func Template(templatePath string) (*Result, error) {
	res := &Result{Template: filepath.Base(templatePath)}
	if err := Structure(templatePath); err != nil {
		res.Errors = append(res.Errors, err.Error())
		return res, nil
	}

	matches, err := lint.New(lint.Options{}).LintFile(templatePath)
	if err != nil {
		return nil, errors.Wrapf(err, "linting %s", templatePath)
	}
	for _, m := range matches {
		switch m.Level {
		case "Error":
			res.Errors = append(res.Errors, formatMatch(m))
		case "Warning":
			res.Warnings = append(res.Warnings, formatMatch(m))
		}
	}
	return res, nil
}

// Dir validates every template in a cloud assembly directory, in name order.
func Dir(dir string) ([]*Result, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+TemplateSuffix))
	if err != nil {
		return nil, errors.Wrapf(err, "listing templates in %s", dir)
	}
	if len(paths) == 0 {
		return nil, errors.Newf("no templates found in %s", dir)
	}
	sort.Strings(paths)

	results := make([]*Result, 0, len(paths))
	for _, p := range paths {
		res, err := Template(p)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Failed returns an error naming every template with errors, or nil.
func Failed(results []*Result) error {
	var failed []string
	for _, r := range results {
		if !r.Passed() {
			failed = append(failed, r.Template)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return errors.Newf("template validation failed: %s", strings.Join(failed, ", "))
}

func formatMatch(m lint.Match) string {
	if len(m.Location.Path) == 0 {
		return fmt.Sprintf("%s: %s", m.Rule.ID, m.Message)
	}
	parts := make([]string, len(m.Location.Path))
	for i, p := range m.Location.Path {
		parts[i] = fmt.Sprintf("%v", p)
	}
	return fmt.Sprintf("%s: %s (at %s)", m.Rule.ID, m.Message, strings.Join(parts, "/"))
}

func findMappingValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i < len(node.Content)-1; i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
