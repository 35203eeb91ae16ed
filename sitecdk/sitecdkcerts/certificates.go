// Package sitecdkcerts creates the ACM certificate the CloudFront
// distributions are served with. It covers the hosted name and all its
// subdomains, so every deployment can share it.
package sitecdkcerts

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/dev0psfyi/website/sitecdk/sitecdkparams"
)

const (
	paramsNamespace = "certs"
	paramName       = "site-certificate-arn"
)

// Certificates gives access to the site certificate.
type Certificates interface {
	SiteCertificate() awscertificatemanager.ICertificate
}

// Props configures the Certificates construct.
type Props struct {
	// HostedZone validates the certificate through DNS. Required.
	HostedZone awsroute53.IHostedZone
}

type certificates struct {
	certificate awscertificatemanager.ICertificate
}

// New creates a certificate for the zone name and *.zone name and stores its
// ARN for LookupCertificate.
func New(scope constructs.Construct, props Props) Certificates {
	scope = constructs.NewConstruct(scope, jsii.String("Certificates"))
	con := &certificates{}

	zoneName := *props.HostedZone.ZoneName()
	con.certificate = awscertificatemanager.NewCertificate(scope, jsii.String("SiteCertificate"),
		&awscertificatemanager.CertificateProps{
			DomainName:              jsii.String(zoneName),
			SubjectAlternativeNames: jsii.Strings("*." + zoneName),
			Validation:              awscertificatemanager.CertificateValidation_FromDns(props.HostedZone),
		})

	sitecdkparams.Store(scope, "CertificateArnParam", paramsNamespace, paramName,
		con.certificate.CertificateArn())

	return con
}

// LookupCertificate references the certificate created by New in the shared
// stack.
func LookupCertificate(scope constructs.Construct) awscertificatemanager.ICertificate {
	arn := sitecdkparams.Lookup(scope, paramsNamespace, paramName)
	return awscertificatemanager.Certificate_FromCertificateArn(scope,
		jsii.String("LookupSiteCertificate"), arn)
}

func (c *certificates) SiteCertificate() awscertificatemanager.ICertificate {
	return c.certificate
}
