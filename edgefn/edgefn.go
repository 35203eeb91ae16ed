// Package edgefn renders the CloudFront viewer-request function that answers
// requests from the static redirect map and the KeyValueStore.
package edgefn

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"text/template"

	"github.com/cockroachdb/errors"
)

// MaxCodeSize is the CloudFront Functions limit on function code.
const MaxCodeSize = 10 * 1024

//go:embed interceptor.js.tmpl
var interceptorSource string

var interceptor = template.Must(template.New("interceptor").Parse(interceptorSource))

// Config holds the values injected into the function at build time.
type Config struct {
	// StoreID identifies the KeyValueStore. When empty the function only
	// answers from StaticRedirects.
	StoreID string
	// StaticRedirects maps exact request paths to redirect targets.
	StaticRedirects map[string]string
}

// Render returns the function code for cfg.
func Render(cfg Config) (string, error) {
	static := cfg.StaticRedirects
	if static == nil {
		static = map[string]string{}
	}

	storeID, err := json.Marshal(cfg.StoreID)
	if err != nil {
		return "", errors.Wrap(err, "encode store id")
	}
	redirects, err := json.Marshal(static)
	if err != nil {
		return "", errors.Wrap(err, "encode static redirects")
	}

	var buf bytes.Buffer
	if err := interceptor.Execute(&buf, map[string]string{
		"StoreID":         string(storeID),
		"StaticRedirects": string(redirects),
	}); err != nil {
		return "", errors.Wrap(err, "render function")
	}

	if buf.Len() > MaxCodeSize {
		return "", errors.Newf("function code is %d bytes, exceeds the %d byte limit", buf.Len(), MaxCodeSize)
	}
	return buf.String(), nil
}
