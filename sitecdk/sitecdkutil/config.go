package sitecdkutil

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

// ContextPrefix prefixes every CDK context key read by the app.
const ContextPrefix = "siteops-"

// ProductionDeployment is served on the hosted name itself. Other deployments
// are served on a subdomain.
const ProductionDeployment = "Prod"

// Redirect store kinds.
const (
	StoreKVS    = "kvs"
	StoreDynamo = "dynamo"
)

// Config holds all CDK context values, validated upfront.
type Config struct {
	Qualifier            string   `validate:"required,max=10"`
	PrimaryRegion        string   `validate:"required,eq=us-east-1"`
	Deployments          []string `validate:"required,dive,required"`
	ProtectedDeployments []string `validate:"dive,required"`
	HostedName           string   `validate:"required,fqdn"`
	HostedZoneID         string
	ServiceName          string `validate:"required"`
	Version              string `validate:"required"`
	RedirectStore        string `validate:"required,oneof=kvs dynamo"`
	RedirectsFile        string
	LogProcessing        bool
}

// NewConfig reads and validates the CDK context.
func NewConfig(scope constructs.Construct) (*Config, error) {
	var readErrs []string

	cfg := &Config{
		ProtectedDeployments: []string{ProductionDeployment},
		Version:              "0.0.0",
		RedirectStore:        StoreKVS,
	}

	cfg.Qualifier, readErrs = readContextString(scope, "qualifier", readErrs)
	cfg.PrimaryRegion, readErrs = readContextString(scope, "primary-region", readErrs)
	cfg.Deployments, readErrs = readContextStringSlice(scope, "deployments", readErrs)
	cfg.HostedName, readErrs = readContextString(scope, "hosted-name", readErrs)
	cfg.ServiceName, readErrs = readContextString(scope, "service-name", readErrs)

	if v, ok := readOptional[[]any](scope, "protected-deployments"); ok {
		cfg.ProtectedDeployments, readErrs = toStrings("protected-deployments", v, readErrs)
	}
	if v, ok := readOptional[string](scope, "hosted-zone-id"); ok {
		cfg.HostedZoneID = v
	}
	if v, ok := readOptional[string](scope, "version"); ok && v != "" {
		cfg.Version = v
	}
	if v, ok := readOptional[string](scope, "redirect-store"); ok && v != "" {
		cfg.RedirectStore = v
	}
	if v, ok := readOptional[string](scope, "redirects-file"); ok {
		cfg.RedirectsFile = v
	}
	cfg.LogProcessing = readOptionalBool(scope, "log-processing")

	if cfg.PrimaryRegion != "" && !IsKnownRegion(cfg.PrimaryRegion) {
		readErrs = append(readErrs, fmt.Sprintf(
			"unknown primary region %q, add it to sitecdkutil.RegionIdents", cfg.PrimaryRegion))
	}

	if len(readErrs) > 0 {
		return nil, errors.Newf("CDK context read errors:\n  - %s", strings.Join(readErrs, "\n  - "))
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			msgs := make([]string, 0, len(validationErrs))
			for _, e := range validationErrs {
				msgs = append(msgs, formatValidationError(e))
			}
			return nil, errors.Newf("CDK context validation errors:\n  - %s", strings.Join(msgs, "\n  - "))
		}
		return nil, errors.Wrap(err, "CDK context validation failed")
	}

	return cfg, nil
}

// SiteDomainName returns the domain a deployment is served on.
func (c *Config) SiteDomainName(deploymentIdent string) string {
	return SiteDomainName(c.HostedName, deploymentIdent)
}

// SiteDomainName returns hostedName for the production deployment and
// "<deployment>.<hostedName>" for the others.
func SiteDomainName(hostedName, deploymentIdent string) string {
	if deploymentIdent == ProductionDeployment {
		return hostedName
	}
	return strings.ToLower(deploymentIdent) + "." + hostedName
}

// IsProtected reports whether the deployment stack gets termination
// protection.
func (c *Config) IsProtected(deploymentIdent string) bool {
	return slices.Contains(c.ProtectedDeployments, deploymentIdent)
}

const configContextKey = "__sitecdkutil_config"

// StoreConfig stores cfg in the app so ConfigFromScope finds it anywhere in
// the construct tree.
func StoreConfig(app awscdk.App, cfg *Config) {
	app.Node().SetContext(jsii.String(configContextKey), cfg)
}

// ConfigFromScope returns the Config stored by StoreConfig. It panics when
// none was stored.
func ConfigFromScope(scope constructs.Construct) *Config {
	val := scope.Node().TryGetContext(jsii.String(configContextKey))
	if val == nil {
		panic("sitecdkutil.Config not found in construct tree, was SetupApp or StoreConfig called?")
	}
	cfg, ok := val.(*Config)
	if !ok {
		panic(fmt.Sprintf("sitecdkutil.Config has unexpected type %T", val))
	}
	return cfg
}

// Qualifier returns the CDK qualifier.
func Qualifier(scope constructs.Construct) string {
	return ConfigFromScope(scope).Qualifier
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "max":
		return fmt.Sprintf("%s exceeds maximum length of %s (got %q)", e.Field(), e.Param(), e.Value())
	case "fqdn":
		return fmt.Sprintf("%s must be a valid domain name (got %q)", e.Field(), e.Value())
	case "eq":
		return fmt.Sprintf("%s must be %s (got %q)", e.Field(), e.Param(), e.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (got %q)", e.Field(), e.Param(), e.Value())
	default:
		return fmt.Sprintf("%s failed validation %q", e.Field(), e.Tag())
	}
}

func readContextString(scope constructs.Construct, name string, errs []string) (string, []string) {
	key := ContextPrefix + name
	val := scope.Node().TryGetContext(jsii.String(key))
	if val == nil {
		return "", append(errs, fmt.Sprintf("context key %q is not set", key))
	}
	s, ok := val.(string)
	if !ok {
		return "", append(errs, fmt.Sprintf("context key %q must be a string, got %T", key, val))
	}
	return s, errs
}

func readContextStringSlice(scope constructs.Construct, name string, errs []string) ([]string, []string) {
	key := ContextPrefix + name
	val := scope.Node().TryGetContext(jsii.String(key))
	if val == nil {
		return nil, append(errs, fmt.Sprintf("context key %q is not set", key))
	}
	slice, ok := val.([]any)
	if !ok {
		return nil, append(errs, fmt.Sprintf("context key %q must be an array, got %T", key, val))
	}
	return toStrings(name, slice, errs)
}

func toStrings(name string, slice []any, errs []string) ([]string, []string) {
	result := make([]string, 0, len(slice))
	for i, v := range slice {
		s, ok := v.(string)
		if !ok {
			return nil, append(errs, fmt.Sprintf("context key %q[%d] must be a string, got %T", ContextPrefix+name, i, v))
		}
		result = append(result, s)
	}
	return result, errs
}

func readOptional[T any](scope constructs.Construct, name string) (T, bool) {
	v, ok := scope.Node().TryGetContext(jsii.String(ContextPrefix + name)).(T)
	return v, ok
}

// readOptionalBool also accepts "true" since -c values arrive as strings.
func readOptionalBool(scope constructs.Construct, name string) bool {
	switch v := scope.Node().TryGetContext(jsii.String(ContextPrefix + name)).(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}
