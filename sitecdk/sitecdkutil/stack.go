package sitecdkutil

import (
	"fmt"
	"os"
	"unicode"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/iancoleman/strcase"
)

const deploymentIdentContextKey = "__sitecdkutil_deployment_ident"

// SharedStackName returns the CloudFormation name of the shared stack.
func SharedStackName(qualifier, regionIdent string) string {
	return strcase.ToLowerCamel(fmt.Sprintf("%s-%s", qualifier, regionIdent)) + "Shared"
}

// DeploymentStackName returns the CloudFormation name of a deployment stack.
func DeploymentStackName(qualifier, regionIdent, deploymentIdent string) string {
	return strcase.ToLowerCamel(fmt.Sprintf("%s-%s", qualifier, regionIdent)) + deploymentIdent
}

// NewStack creates the shared stack, or a deployment stack when a deployment
// identifier is given. Deployment stacks listed as protected get termination
// protection.
func NewStack(scope constructs.Construct, cfg *Config, deploymentIdent ...string) awscdk.Stack {
	regionIdent := RegionIdentFor(cfg.PrimaryRegion)
	baseIdent := strcase.ToLowerCamel(fmt.Sprintf("%s-%s", cfg.Qualifier, regionIdent))

	var stackName, description, dident string
	var protect bool
	switch {
	case len(deploymentIdent) > 0 && deploymentIdent[0] != "":
		dident = deploymentIdent[0]
		if !unicode.IsUpper(rune(dident[0])) {
			panic("deployment identifier must start with an upper-case letter, got: " + dident)
		}
		stackName = DeploymentStackName(cfg.Qualifier, regionIdent, dident)
		description = fmt.Sprintf("%s website %s (%s, version %s)",
			cfg.ServiceName, dident, cfg.SiteDomainName(dident), cfg.Version)
		protect = cfg.IsProtected(dident)
	case len(deploymentIdent) > 0:
		panic("invalid deploymentIdent: " + deploymentIdent[0])
	default:
		stackName = SharedStackName(cfg.Qualifier, regionIdent)
		description = fmt.Sprintf("%s shared resources (%s)", baseIdent, cfg.HostedName)
	}

	stack := awscdk.NewStack(scope, jsii.String(stackName), &awscdk.StackProps{
		Env: &awscdk.Environment{
			Account: jsii.String(os.Getenv("CDK_DEFAULT_ACCOUNT")),
			Region:  jsii.String(cfg.PrimaryRegion),
		},
		Description:           jsii.String(description),
		TerminationProtection: jsii.Bool(protect),
		Synthesizer: awscdk.NewDefaultStackSynthesizer(&awscdk.DefaultStackSynthesizerProps{
			Qualifier: jsii.String(cfg.Qualifier),
		}),
	})
	awscdk.Tags_Of(stack).Add(jsii.String("service"), jsii.String(cfg.ServiceName), nil)

	if dident != "" {
		stack.Node().SetContext(jsii.String(deploymentIdentContextKey), dident)
	}

	awscdk.Annotations_Of(stack).AcknowledgeWarning(
		jsii.String("@aws-cdk/aws-lambda-go-alpha:goBuildFlagsSecurityWarning"),
		jsii.String("Build flags are set by sitecdkutil.ReproducibleGoBundling"),
	)
	return stack
}

// DeploymentIdent returns the deployment identifier of the enclosing stack,
// or "" inside the shared stack.
func DeploymentIdent(scope constructs.Construct) string {
	v, _ := awscdk.Stack_Of(scope).Node().TryGetContext(jsii.String(deploymentIdentContextKey)).(string)
	return v
}
