package sitecdkutil

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
)

// SharedConstructor builds the resources shared by all deployments.
type SharedConstructor[S any] func(stack awscdk.Stack) S

// DeploymentConstructor builds one deployment of the site.
type DeploymentConstructor[S any] func(stack awscdk.Stack, shared S, deploymentIdent string)

// SetupApp validates the CDK context, stores it in the tree and creates the
// shared stack followed by one stack per deployment, all in the primary
// region. It panics on invalid context.
func SetupApp[S any](
	app awscdk.App,
	newShared SharedConstructor[S],
	newDeployment DeploymentConstructor[S],
) *Config {
	cfg, err := NewConfig(app)
	if err != nil {
		panic(err)
	}
	StoreConfig(app, cfg)

	sharedStack := NewStack(app, cfg)
	shared := newShared(sharedStack)

	for _, deploymentIdent := range cfg.Deployments {
		stack := NewStack(app, cfg, deploymentIdent)
		newDeployment(stack, shared, deploymentIdent)
		stack.AddDependency(sharedStack, jsii.String("Shared stack must deploy first"))
	}
	return cfg
}
