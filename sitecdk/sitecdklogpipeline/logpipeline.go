// Package sitecdklogpipeline creates the CloudFront access log bucket and
// the queue that receives a notification for every log object written to it.
// The queue is drained by the log processor Lambda or by "siteops logs drain".
package sitecdklogpipeline

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambdaeventsources"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3notifications"
	"github.com/aws/aws-cdk-go/awscdk/v2/awssqs"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// AccessLogPrefix is the key prefix CloudFront writes access logs under.
const AccessLogPrefix = "CloudFrontAccessLogs/"

// LogPipeline gives access to the log bucket and queue.
type LogPipeline interface {
	Bucket() awss3.IBucket
	Queue() awssqs.IQueue
	// ConnectProcessor lets fn read the log objects and, when enabled, feeds
	// it the queue messages.
	ConnectProcessor(fn awslambda.IFunction, enabled bool)
}

// Props configures the LogPipeline construct.
type Props struct {
	// BucketName of the log bucket. Required.
	BucketName *string
	// QueueName of the notification queue. Required.
	QueueName *string
}

type logPipeline struct {
	bucket awss3.IBucket
	queue  awssqs.IQueue
}

// New creates the log bucket, the queue and the notification between them,
// plus "LogBucket" and "LogQueueUrl" outputs.
func New(scope constructs.Construct, props Props) LogPipeline {
	scope = constructs.NewConstruct(scope, jsii.String("LogPipeline"))
	con := &logPipeline{}

	con.bucket = awss3.NewBucket(scope, jsii.String("Bucket"), &awss3.BucketProps{
		BucketName:        props.BucketName,
		BlockPublicAccess: awss3.BlockPublicAccess_BLOCK_ALL(),
		// CloudFront standard logging writes through ACLs.
		ObjectOwnership: awss3.ObjectOwnership_BUCKET_OWNER_PREFERRED,
		Encryption:      awss3.BucketEncryption_S3_MANAGED,
		EnforceSSL:      jsii.Bool(true),
		RemovalPolicy:   awscdk.RemovalPolicy_RETAIN,
		LifecycleRules: &[]*awss3.LifecycleRule{
			{
				Id:                                  jsii.String("expire-logs-60days"),
				Expiration:                          awscdk.Duration_Days(jsii.Number(60)),
				AbortIncompleteMultipartUploadAfter: awscdk.Duration_Days(jsii.Number(30)),
			},
		},
	})

	con.queue = awssqs.NewQueue(scope, jsii.String("Queue"), &awssqs.QueueProps{
		QueueName:              props.QueueName,
		RetentionPeriod:        awscdk.Duration_Days(jsii.Number(14)),
		VisibilityTimeout:      awscdk.Duration_Seconds(jsii.Number(2000)),
		ReceiveMessageWaitTime: awscdk.Duration_Seconds(jsii.Number(20)),
		Encryption:             awssqs.QueueEncryption_SQS_MANAGED,
		EnforceSSL:             jsii.Bool(true),
	})

	con.bucket.AddEventNotification(awss3.EventType_OBJECT_CREATED,
		awss3notifications.NewSqsDestination(con.queue),
		&awss3.NotificationKeyFilter{Prefix: jsii.String(AccessLogPrefix)})

	awscdk.NewCfnOutput(scope, jsii.String("BucketOutput"), &awscdk.CfnOutputProps{
		Key:         jsii.String("LogBucket"),
		Description: jsii.String("S3 bucket receiving CloudFront access logs"),
		Value:       con.bucket.BucketName(),
	})
	awscdk.NewCfnOutput(scope, jsii.String("QueueOutput"), &awscdk.CfnOutputProps{
		Key:         jsii.String("LogQueueUrl"),
		Description: jsii.String("SQS queue notified of new access log objects"),
		Value:       con.queue.QueueUrl(),
	})

	return con
}

func (l *logPipeline) Bucket() awss3.IBucket {
	return l.bucket
}

func (l *logPipeline) Queue() awssqs.IQueue {
	return l.queue
}

func (l *logPipeline) ConnectProcessor(fn awslambda.IFunction, enabled bool) {
	l.bucket.GrantRead(fn, jsii.String(AccessLogPrefix+"*"))
	if !enabled {
		return
	}
	fn.AddEventSource(awslambdaeventsources.NewSqsEventSource(l.queue,
		&awslambdaeventsources.SqsEventSourceProps{
			BatchSize:               jsii.Number(10),
			ReportBatchItemFailures: jsii.Bool(true),
		}))
}
