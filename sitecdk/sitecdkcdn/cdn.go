// Package sitecdkcdn creates the CloudFront distribution that serves the
// website content, answers redirects at the edge and writes access logs, plus
// the Route53 alias records pointing at it.
package sitecdkcdn

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfrontorigins"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53targets"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// PreviewPathPattern routes preview builds to the bucket root.
const PreviewPathPattern = "PR-*"

// RedirectorPathPrefix is forwarded to the redirector function URL, when one
// is configured. The redirector strips it before resolving.
const RedirectorPathPrefix = "/r"

// RedirectorPathPattern is the behavior pattern for RedirectorPathPrefix.
const RedirectorPathPattern = RedirectorPathPrefix + "/*"

// CDN gives access to the distribution.
type CDN interface {
	Distribution() awscloudfront.IDistribution
}

// Props configures the CDN construct.
type Props struct {
	// DomainName the distribution is served on. Required.
	DomainName *string
	// HostedZone receives the alias records. Required.
	HostedZone awsroute53.IHostedZone
	// Certificate must cover DomainName and live in us-east-1. Required.
	Certificate awscertificatemanager.ICertificate
	// ContentBucket is the default origin. Required.
	ContentBucket awss3.IBucket
	// OriginPath of the production content within ContentBucket. Required.
	OriginPath *string
	// LogBucket receives the access logs. Required.
	LogBucket awss3.IBucket
	// LogFilePrefix of the access log objects. Required.
	LogFilePrefix *string
	// RequestInterceptor runs on viewer requests of the default behavior.
	// Required.
	RequestInterceptor awscloudfront.IFunction
	// RedirectorURL adds a behavior for RedirectorPathPattern. Optional.
	RedirectorURL awslambda.IFunctionUrl
}

type cdn struct {
	distribution awscloudfront.IDistribution
}

// New creates the distribution, its alias records and the
// "DistributionDomainName" and "DistributionId" outputs.
func New(scope constructs.Construct, props Props) CDN {
	scope = constructs.NewConstruct(scope, jsii.String("CDN"))
	con := &cdn{}

	oac := awscloudfront.NewS3OriginAccessControl(scope, jsii.String("OriginAccessControl"),
		&awscloudfront.S3OriginAccessControlProps{
			Signing: awscloudfront.Signing_SIGV4_ALWAYS(),
		})

	contentOrigin := awscloudfrontorigins.S3BucketOrigin_WithOriginAccessControl(props.ContentBucket,
		&awscloudfrontorigins.S3BucketOriginWithOACProps{
			OriginAccessControl: oac,
			OriginPath:          jsii.String("/" + *props.OriginPath),
		})
	previewOrigin := awscloudfrontorigins.S3BucketOrigin_WithOriginAccessControl(props.ContentBucket,
		&awscloudfrontorigins.S3BucketOriginWithOACProps{
			OriginAccessControl: oac,
		})

	additional := map[string]*awscloudfront.BehaviorOptions{
		PreviewPathPattern: {
			Origin:               previewOrigin,
			AllowedMethods:       awscloudfront.AllowedMethods_ALLOW_GET_HEAD_OPTIONS(),
			Compress:             jsii.Bool(true),
			CachePolicy:          awscloudfront.CachePolicy_CACHING_OPTIMIZED(),
			OriginRequestPolicy:  awscloudfront.OriginRequestPolicy_CORS_S3_ORIGIN(),
			ViewerProtocolPolicy: awscloudfront.ViewerProtocolPolicy_REDIRECT_TO_HTTPS,
		},
	}
	if props.RedirectorURL != nil {
		additional[RedirectorPathPattern] = &awscloudfront.BehaviorOptions{
			Origin:               awscloudfrontorigins.NewFunctionUrlOrigin(props.RedirectorURL, nil),
			AllowedMethods:       awscloudfront.AllowedMethods_ALLOW_GET_HEAD(),
			CachePolicy:          awscloudfront.CachePolicy_CACHING_DISABLED(),
			OriginRequestPolicy:  awscloudfront.OriginRequestPolicy_ALL_VIEWER_EXCEPT_HOST_HEADER(),
			ViewerProtocolPolicy: awscloudfront.ViewerProtocolPolicy_REDIRECT_TO_HTTPS,
		}
	}

	errorTTL := awscdk.Duration_Seconds(jsii.Number(300))
	distribution := awscloudfront.NewDistribution(scope, jsii.String("Distribution"), &awscloudfront.DistributionProps{
		Comment:                awscdk.Stack_Of(scope).StackName(),
		DomainNames:            &[]*string{props.DomainName},
		Certificate:            props.Certificate,
		DefaultRootObject:      jsii.String("index.html"),
		HttpVersion:            awscloudfront.HttpVersion_HTTP2_AND_3,
		PriceClass:             awscloudfront.PriceClass_PRICE_CLASS_100,
		MinimumProtocolVersion: awscloudfront.SecurityPolicyProtocol_TLS_V1_2_2021,
		EnableIpv6:             jsii.Bool(true),
		EnableLogging:          jsii.Bool(true),
		LogBucket:              props.LogBucket,
		LogFilePrefix:          props.LogFilePrefix,
		LogIncludesCookies:     jsii.Bool(true),
		DefaultBehavior: &awscloudfront.BehaviorOptions{
			Origin:               contentOrigin,
			AllowedMethods:       awscloudfront.AllowedMethods_ALLOW_GET_HEAD_OPTIONS(),
			Compress:             jsii.Bool(true),
			CachePolicy:          awscloudfront.CachePolicy_CACHING_OPTIMIZED(),
			OriginRequestPolicy:  awscloudfront.OriginRequestPolicy_CORS_S3_ORIGIN(),
			ViewerProtocolPolicy: awscloudfront.ViewerProtocolPolicy_REDIRECT_TO_HTTPS,
			FunctionAssociations: &[]*awscloudfront.FunctionAssociation{
				{
					EventType: awscloudfront.FunctionEventType_VIEWER_REQUEST,
					Function:  props.RequestInterceptor,
				},
			},
		},
		AdditionalBehaviors: &additional,
		ErrorResponses: &[]*awscloudfront.ErrorResponse{
			{
				HttpStatus:         jsii.Number(403),
				ResponseHttpStatus: jsii.Number(200),
				ResponsePagePath:   jsii.String("/index.html"),
				Ttl:                errorTTL,
			},
			{
				HttpStatus:         jsii.Number(404),
				ResponseHttpStatus: jsii.Number(200),
				ResponsePagePath:   jsii.String("/index.html"),
				Ttl:                errorTTL,
			},
		},
	})
	con.distribution = distribution

	target := awsroute53.RecordTarget_FromAlias(awsroute53targets.NewCloudFrontTarget(distribution))
	awsroute53.NewARecord(scope, jsii.String("AliasRecord"), &awsroute53.ARecordProps{
		Zone:       props.HostedZone,
		RecordName: props.DomainName,
		Target:     target,
	})
	awsroute53.NewAaaaRecord(scope, jsii.String("AliasRecordIpv6"), &awsroute53.AaaaRecordProps{
		Zone:       props.HostedZone,
		RecordName: props.DomainName,
		Target:     target,
	})

	awscdk.NewCfnOutput(scope, jsii.String("DomainNameOutput"), &awscdk.CfnOutputProps{
		Key:         jsii.String("DistributionDomainName"),
		Description: jsii.String("CloudFront domain name of the website"),
		Value:       distribution.DistributionDomainName(),
	})
	awscdk.NewCfnOutput(scope, jsii.String("IdOutput"), &awscdk.CfnOutputProps{
		Key:         jsii.String("DistributionId"),
		Description: jsii.String("CloudFront distribution id of the website"),
		Value:       distribution.DistributionId(),
	})

	return con
}

func (c *cdn) Distribution() awscloudfront.IDistribution {
	return c.distribution
}
