// Package sitecdkloggroup creates log groups with a fixed removal policy and
// a stack output holding the log group name, so the CLI can find them.
package sitecdkloggroup

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslogs"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// LogGroup gives access to the log group.
type LogGroup interface {
	LogGroup() awslogs.ILogGroup
}

// Props configures the LogGroup construct.
type Props struct {
	// Purpose describes the logs, used in the output description. Required.
	Purpose *string
	// Retention defaults to one year.
	Retention awslogs.RetentionDays
}

type logGroup struct {
	lg awslogs.ILogGroup
}

// New creates the log group and an output "{id}LogGroup".
func New(scope constructs.Construct, id string, props Props) LogGroup {
	scope = constructs.NewConstruct(scope, jsii.String(id))
	con := &logGroup{}

	retention := props.Retention
	if retention == "" {
		retention = awslogs.RetentionDays_ONE_YEAR
	}

	con.lg = awslogs.NewLogGroup(scope, jsii.String("LogGroup"), &awslogs.LogGroupProps{
		Retention:     retention,
		RemovalPolicy: awscdk.RemovalPolicy_DESTROY,
	})

	awscdk.NewCfnOutput(scope, jsii.String("LogGroupOutput"), &awscdk.CfnOutputProps{
		Key:         jsii.String(id + "LogGroup"),
		Description: jsii.String("CloudWatch Log Group for " + *props.Purpose),
		Value:       con.lg.LogGroupName(),
	})

	return con
}

func (l *logGroup) LogGroup() awslogs.ILogGroup {
	return l.lg
}
