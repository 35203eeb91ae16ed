//nolint:paralleltest // jsii runtime doesn't support parallel tests
package sitecdkcdn_test

import (
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/jsii-runtime-go"
	"github.com/dev0psfyi/website/sitecdk/sitecdkcdn"
	"github.com/dev0psfyi/website/sitecdk/sitecdkcontent"
	"github.com/dev0psfyi/website/sitecdk/sitecdklogpipeline"
)

func newProps(stack awscdk.Stack) sitecdkcdn.Props {
	zone := awsroute53.HostedZone_FromHostedZoneAttributes(stack, jsii.String("Zone"),
		&awsroute53.HostedZoneAttributes{
			HostedZoneId: jsii.String("Z0123456789ABC"),
			ZoneName:     jsii.String("dev0ps.fyi"),
		})
	cert := awscertificatemanager.Certificate_FromCertificateArn(stack, jsii.String("Cert"),
		jsii.String("arn:aws:acm:us-east-1:123456789012:certificate/abc"))
	content := sitecdkcontent.New(stack, sitecdkcontent.Props{BucketName: jsii.String("dev0ps.fyi")})
	logs := sitecdklogpipeline.New(stack, sitecdklogpipeline.Props{
		BucketName: jsii.String("dev0ps.fyi.logs"),
		QueueName:  jsii.String("logs"),
	})
	fn := awscloudfront.NewFunction(stack, jsii.String("Fn"), &awscloudfront.FunctionProps{
		Code:    awscloudfront.FunctionCode_FromInline(jsii.String("function handler(event) { return event.request; }")),
		Runtime: awscloudfront.FunctionRuntime_JS_2_0(),
	})

	return sitecdkcdn.Props{
		DomainName:         jsii.String("dev0ps.fyi"),
		HostedZone:         zone,
		Certificate:        cert,
		ContentBucket:      content.Bucket(),
		OriginPath:         jsii.String(sitecdkcontent.OriginPrefix),
		LogBucket:          logs.Bucket(),
		LogFilePrefix:      jsii.String(sitecdklogpipeline.AccessLogPrefix),
		RequestInterceptor: fn,
	}
}

func newStack() awscdk.Stack {
	app := awscdk.NewApp(nil)
	return awscdk.NewStack(app, jsii.String("Test"), &awscdk.StackProps{
		Env: &awscdk.Environment{
			Account: jsii.String("123456789012"),
			Region:  jsii.String("us-east-1"),
		},
	})
}

func TestNew_Distribution(t *testing.T) {
	defer jsii.Close()

	stack := newStack()
	cdn := sitecdkcdn.New(stack, newProps(stack))
	if cdn.Distribution() == nil {
		t.Fatal("Distribution() should not be nil")
	}

	template := assertions.Template_FromStack(stack, nil)
	template.HasResourceProperties(jsii.String("AWS::CloudFront::Distribution"), map[string]any{
		"DistributionConfig": map[string]any{
			"Aliases":           []any{"dev0ps.fyi"},
			"DefaultRootObject": "index.html",
			"HttpVersion":       "http2and3",
			"PriceClass":        "PriceClass_100",
			"ViewerCertificate": map[string]any{
				"MinimumProtocolVersion": "TLSv1.2_2021",
				"SslSupportMethod":       "sni-only",
			},
			"Logging": map[string]any{
				"IncludeCookies": true,
				"Prefix":         "CloudFrontAccessLogs/",
			},
			"DefaultCacheBehavior": map[string]any{
				"ViewerProtocolPolicy": "redirect-to-https",
				"CachePolicyId":        "658327ea-f89d-4fab-a63d-7e88639e58f6",
				"FunctionAssociations": []any{
					map[string]any{"EventType": "viewer-request"},
				},
			},
			"CacheBehaviors": []any{
				map[string]any{"PathPattern": "PR-*"},
			},
			"CustomErrorResponses": []any{
				map[string]any{
					"ErrorCode":          403,
					"ResponseCode":       200,
					"ResponsePagePath":   "/index.html",
					"ErrorCachingMinTTL": 300,
				},
				map[string]any{
					"ErrorCode":          404,
					"ResponseCode":       200,
					"ResponsePagePath":   "/index.html",
					"ErrorCachingMinTTL": 300,
				},
			},
		},
	})
	template.HasResourceProperties(jsii.String("AWS::CloudFront::Distribution"), map[string]any{
		"DistributionConfig": map[string]any{
			"Origins": assertions.Match_ArrayWith(&[]any{
				map[string]any{"OriginPath": "/v2"},
			}),
		},
	})

	template.ResourceCountIs(jsii.String("AWS::CloudFront::OriginAccessControl"), jsii.Number(1))
	template.HasResourceProperties(jsii.String("AWS::Route53::RecordSet"), map[string]any{
		"Name": "dev0ps.fyi.",
		"Type": "A",
	})
	template.HasResourceProperties(jsii.String("AWS::Route53::RecordSet"), map[string]any{
		"Name": "dev0ps.fyi.",
		"Type": "AAAA",
	})
	template.HasOutput(jsii.String("DistributionDomainName"), map[string]any{})
	template.HasOutput(jsii.String("DistributionId"), map[string]any{})
}

func TestNew_RedirectorBehavior(t *testing.T) {
	defer jsii.Close()

	stack := newStack()
	props := newProps(stack)
	fn := awslambda.NewFunction(stack, jsii.String("Redirector"), &awslambda.FunctionProps{
		Runtime: awslambda.Runtime_PROVIDED_AL2023(),
		Handler: jsii.String("bootstrap"),
		Code:    awslambda.Code_FromInline(jsii.String("noop")),
	})
	props.RedirectorURL = fn.AddFunctionUrl(&awslambda.FunctionUrlOptions{
		AuthType: awslambda.FunctionUrlAuthType_NONE,
	})
	sitecdkcdn.New(stack, props)

	template := assertions.Template_FromStack(stack, nil)
	template.HasResourceProperties(jsii.String("AWS::CloudFront::Distribution"), map[string]any{
		"DistributionConfig": map[string]any{
			"CacheBehaviors": assertions.Match_ArrayWith(&[]any{
				map[string]any{
					"PathPattern":   "/r/*",
					"CachePolicyId": "4135ea2d-6df8-44a3-9df3-4b5a84be39ad",
				},
			}),
		},
	})
}
