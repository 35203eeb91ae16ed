// Package sitecdkcontent creates the private bucket that holds the website
// content. CloudFront reads it through Origin Access Control.
package sitecdkcontent

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// OriginPrefix is the key prefix the production content is published under.
// Objects outside it (e.g. "PR-123/") hold preview builds.
const OriginPrefix = "v2"

// Content gives access to the content bucket.
type Content interface {
	Bucket() awss3.IBucket
}

// Props configures the Content construct.
type Props struct {
	// BucketName is the site domain the bucket is named after. Required.
	BucketName *string
}

type content struct {
	bucket awss3.IBucket
}

// New creates the content bucket and a "ContentBucket" output.
func New(scope constructs.Construct, props Props) Content {
	scope = constructs.NewConstruct(scope, jsii.String("Content"))
	con := &content{}

	con.bucket = awss3.NewBucket(scope, jsii.String("Bucket"), &awss3.BucketProps{
		BucketName:        props.BucketName,
		BlockPublicAccess: awss3.BlockPublicAccess_BLOCK_ALL(),
		ObjectOwnership:   awss3.ObjectOwnership_BUCKET_OWNER_ENFORCED,
		Encryption:        awss3.BucketEncryption_S3_MANAGED,
		EnforceSSL:        jsii.Bool(true),
		RemovalPolicy:     awscdk.RemovalPolicy_RETAIN,
		LifecycleRules: &[]*awss3.LifecycleRule{
			{
				Id:                                  jsii.String("delete-incomplete-mpu-7days"),
				AbortIncompleteMultipartUploadAfter: awscdk.Duration_Days(jsii.Number(7)),
			},
		},
	})

	awscdk.NewCfnOutput(scope, jsii.String("BucketOutput"), &awscdk.CfnOutputProps{
		Key:         jsii.String("ContentBucket"),
		Description: jsii.String("S3 bucket holding the website content"),
		Value:       con.bucket.BucketName(),
	})

	return con
}

func (c *content) Bucket() awss3.IBucket {
	return c.bucket
}
