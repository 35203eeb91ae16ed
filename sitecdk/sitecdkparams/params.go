// Package sitecdkparams shares construct values between the site's stacks
// through SSM Parameter Store instead of CloudFormation exports, so stacks
// can be updated independently.
package sitecdkparams

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awsssm"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/dev0psfyi/website/sitecdk/sitecdkutil"
)

// ParameterName returns /{qualifier}/{namespace}/{name}.
func ParameterName(scope constructs.Construct, namespace, name string) *string {
	return jsii.Sprintf("/%s/%s/%s", sitecdkutil.Qualifier(scope), namespace, name)
}

// Store writes value to a parameter.
func Store(scope constructs.Construct, id, namespace, name string, value *string) awsssm.StringParameter {
	return awsssm.NewStringParameter(scope, jsii.String(id), &awsssm.StringParameterProps{
		ParameterName: ParameterName(scope, namespace, name),
		StringValue:   value,
	})
}

// Lookup reads a parameter written by Store in another stack. The value is
// resolved at deploy time.
func Lookup(scope constructs.Construct, namespace, name string) *string {
	return awsssm.StringParameter_ValueForStringParameter(scope,
		ParameterName(scope, namespace, name), nil)
}
