package redirecthttp

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/dev0psfyi/website/redirect"
	"github.com/dev0psfyi/website/sitelwa"
)

// Store kinds.
const (
	StoreKVS    = "kvs"
	StoreDynamo = "dynamo"
)

// KVSRegion is the region of the KeyValueStore data plane client.
const KVSRegion = "us-east-1"

// Env is the redirector environment.
type Env struct {
	sitelwa.BaseEnvironment
	StoreKind       string          `env:"SITE_REDIRECT_STORE" envDefault:"kvs"`
	KVSARN          string          `env:"SITE_REDIRECT_KVS_ARN"`
	TableName       string          `env:"SITE_REDIRECT_TABLE_NAME"`
	StaticRedirects StaticRedirects `env:"SITE_STATIC_REDIRECTS"`
	// PathPrefix is stripped from request paths before resolving.
	PathPrefix string `env:"SITE_REDIRECT_PATH_PREFIX"`
}

// StaticRedirects is a static redirect map encoded as a JSON object.
type StaticRedirects redirect.StaticMap

// UnmarshalText decodes the JSON object.
func (s *StaticRedirects) UnmarshalText(text []byte) error {
	m := map[string]string{}
	if len(text) > 0 {
		if err := json.Unmarshal(text, &m); err != nil {
			return errors.Wrap(err, "decode static redirects")
		}
	}
	*s = m
	return nil
}
