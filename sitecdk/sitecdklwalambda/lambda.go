// Package sitecdklwalambda creates Go Lambda functions that run an HTTP
// server behind the AWS Lambda Web Adapter (LWA), as expected by the sitelwa
// package.
package sitecdklwalambda

import (
	"fmt"
	"maps"
	"path/filepath"
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslogs"
	"github.com/aws/aws-cdk-go/awscdklambdagoalpha/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/cockroachdb/errors"
	"github.com/dev0psfyi/website/sitecdk/sitecdkloggroup"
	"github.com/dev0psfyi/website/sitecdk/sitecdkutil"
	"github.com/iancoleman/strcase"
)

// LWALayerVersion is the Lambda Web Adapter layer version.
const LWALayerVersion = 25

// Lambda gives access to the function.
type Lambda interface {
	Function() awscdklambdagoalpha.GoFunction
	LogGroup() awslogs.ILogGroup
	// URL is nil unless Props.FunctionURL was set.
	URL() awslambda.IFunctionUrl
	// Name is the construct name derived from the entry and pass-through
	// path.
	Name() string
}

// Props configures the Lambda construct.
type Props struct {
	// Entry is the Go command directory, "<component>/cmd/<command>".
	// Required.
	Entry *string
	// Environment is merged with the variables sitelwa requires.
	Environment *map[string]*string
	// PassThroughPath makes LWA POST non-HTTP events (e.g. SQS batches) to
	// this path, "/l/<handler>". Optional.
	PassThroughPath *string
	// FunctionURL adds a public function URL and a "{Name}Url" output.
	FunctionURL bool
	// Timeout defaults to 30 seconds.
	Timeout awscdk.Duration
}

func parsePassThroughPath(path string) (suffix string, err error) {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(parts) != 2 || parts[0] != "l" || parts[1] == "" {
		return "", errors.Newf("PassThroughPath must match pattern /l/<handler>, got %q", path)
	}
	handler := parts[1]
	if handler != strcase.ToKebab(handler) {
		return "", errors.Newf("PassThroughPath handler must be kebab-case, got %q", handler)
	}
	return strcase.ToCamel(handler), nil
}

// ParseEntry splits an entry "<component>/cmd/<command>".
func ParseEntry(entry string) (component, command string, err error) {
	parts := strings.Split(filepath.ToSlash(entry), "/")
	for i := len(parts) - 2; i >= 1; i-- {
		if parts[i] != "cmd" {
			continue
		}
		component, command = parts[i-1], parts[i+1]
		if component == "" || command == "" {
			break
		}
		return component, command, nil
	}
	return "", "", errors.Newf("entry must match pattern <component>/cmd/<command>, got %q", entry)
}

type lambda struct {
	function awscdklambdagoalpha.GoFunction
	logGroup awslogs.ILogGroup
	url      awslambda.IFunctionUrl
	name     string
}

// New creates an arm64 Go function with the LWA layer, listening on port
// 8080 with readiness checks on /health. It panics on an invalid entry or
// pass-through path.
func New(scope constructs.Construct, props Props) Lambda {
	component, command, err := ParseEntry(*props.Entry)
	if err != nil {
		panic(err)
	}
	name := strcase.ToCamel(component) + strcase.ToCamel(command)
	if props.PassThroughPath != nil {
		suffix, err := parsePassThroughPath(*props.PassThroughPath)
		if err != nil {
			panic(err)
		}
		name += suffix
	}
	scope = constructs.NewConstruct(scope, jsii.String(name))
	con := &lambda{name: name}

	cfg := sitecdkutil.ConfigFromScope(scope)
	region := *awscdk.Stack_Of(scope).Region()
	functionName := sitecdkutil.ResourceName(scope, name, sitecdkutil.CasingKebab)

	env := make(map[string]*string)
	if props.Environment != nil {
		maps.Copy(env, *props.Environment)
	}
	env["AWS_LWA_PORT"] = jsii.String("8080")
	env["AWS_LWA_READINESS_CHECK_PATH"] = jsii.String("/health")
	env["SITE_SERVICE_NAME"] = jsii.String(functionName)
	env["SITE_OTEL_EXPORTER"] = jsii.String("xrayudp")
	env["SITE_PRIMARY_REGION"] = jsii.String(cfg.PrimaryRegion)
	if props.PassThroughPath != nil {
		env["AWS_LWA_PASS_THROUGH_PATH"] = props.PassThroughPath
	}

	timeout := props.Timeout
	if timeout == nil {
		timeout = awscdk.Duration_Seconds(jsii.Number(30))
	}

	con.logGroup = sitecdkloggroup.New(scope, name, sitecdkloggroup.Props{
		Purpose: jsii.String("Lambda function " + name),
	}).LogGroup()

	lwaLayerArn := fmt.Sprintf(
		"arn:aws:lambda:%s:753240598075:layer:LambdaAdapterLayerArm64:%d",
		region, LWALayerVersion,
	)

	con.function = awscdklambdagoalpha.NewGoFunction(scope, jsii.String("Function"),
		&awscdklambdagoalpha.GoFunctionProps{
			FunctionName: jsii.String(functionName),
			Entry:        props.Entry,
			Architecture: awslambda.Architecture_ARM_64(),
			Runtime:      awslambda.Runtime_PROVIDED_AL2023(),
			MemorySize:   jsii.Number(128),
			Timeout:      timeout,
			Environment:  &env,
			Bundling:     sitecdkutil.ReproducibleGoBundling(),
			Tracing:      awslambda.Tracing_ACTIVE,
			Layers: &[]awslambda.ILayerVersion{
				awslambda.LayerVersion_FromLayerVersionArn(scope,
					jsii.String("LWALayer"), jsii.String(lwaLayerArn)),
			},
			LogGroup:      con.logGroup,
			LoggingFormat: awslambda.LoggingFormat_JSON,
		})

	if props.FunctionURL {
		con.url = con.function.AddFunctionUrl(&awslambda.FunctionUrlOptions{
			AuthType: awslambda.FunctionUrlAuthType_NONE,
		})
		awscdk.NewCfnOutput(scope, jsii.String("UrlOutput"), &awscdk.CfnOutputProps{
			Key:         jsii.String(name + "Url"),
			Description: jsii.String("Function URL of " + name),
			Value:       con.url.Url(),
		})
	}

	return con
}

func (l *lambda) Function() awscdklambdagoalpha.GoFunction {
	return l.function
}

func (l *lambda) LogGroup() awslogs.ILogGroup {
	return l.logGroup
}

func (l *lambda) URL() awslambda.IFunctionUrl {
	return l.url
}

func (l *lambda) Name() string {
	return l.name
}
