// Package sitecdkdynamo creates the DynamoDB table the redirector reads when
// the redirect store kind is "dynamo". Items are keyed by pk (the request
// path) and sk, matching the redirectdynamo package.
package sitecdkdynamo

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsdynamodb"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/dev0psfyi/website/sitecdk/sitecdkutil"
)

// Dynamo gives access to the redirect table.
type Dynamo interface {
	Table() awsdynamodb.ITableV2
	GrantReadData(grantee awsiam.IGrantable)
}

// Props configures the Dynamo construct.
type Props struct {
	// Identifier is used in the table name. Defaults to "redirects", which
	// gives "{qualifier}-{deployment}-redirects-table".
	Identifier *string
}

type dynamo struct {
	table awsdynamodb.ITableV2
}

// New creates the table and a "RedirectTableName" output.
func New(scope constructs.Construct, props Props) Dynamo {
	identifier := "redirects"
	if props.Identifier != nil && *props.Identifier != "" {
		identifier = *props.Identifier
	}
	scope = constructs.NewConstruct(scope, jsii.String("Dynamo"))
	con := &dynamo{}

	tableName := sitecdkutil.ResourceName(scope, identifier+"-table", sitecdkutil.CasingKebab)
	con.table = awsdynamodb.NewTableV2(scope, jsii.String("Table"), &awsdynamodb.TablePropsV2{
		TableName:     jsii.String(tableName),
		PartitionKey:  &awsdynamodb.Attribute{Name: jsii.String("pk"), Type: awsdynamodb.AttributeType_STRING},
		SortKey:       &awsdynamodb.Attribute{Name: jsii.String("sk"), Type: awsdynamodb.AttributeType_STRING},
		Billing:       awsdynamodb.Billing_OnDemand(nil),
		RemovalPolicy: awscdk.RemovalPolicy_DESTROY,
		PointInTimeRecoverySpecification: &awsdynamodb.PointInTimeRecoverySpecification{
			PointInTimeRecoveryEnabled: jsii.Bool(true),
		},
	})

	awscdk.NewCfnOutput(scope, jsii.String("TableNameOutput"), &awscdk.CfnOutputProps{
		Key:         jsii.String("RedirectTableName"),
		Description: jsii.String("DynamoDB table holding redirect targets"),
		Value:       con.table.TableName(),
	})

	return con
}

func (d *dynamo) Table() awsdynamodb.ITableV2 {
	return d.table
}

func (d *dynamo) GrantReadData(grantee awsiam.IGrantable) {
	d.table.GrantReadData(grantee)
}
