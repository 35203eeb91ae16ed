// Package cdk composes the website stacks.
package cdk

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/dev0psfyi/website/sitecdk/sitecdkcerts"
	"github.com/dev0psfyi/website/sitecdk/sitecdkdns"
)

// Shared holds the resources every deployment uses.
type Shared struct {
	DNS          sitecdkdns.DNS
	Certificates sitecdkcerts.Certificates
}

// NewShared imports the hosted zone and creates the site certificate.
func NewShared(stack awscdk.Stack) *Shared {
	shared := &Shared{}
	shared.DNS = sitecdkdns.New(stack, sitecdkdns.Props{})
	shared.Certificates = sitecdkcerts.New(stack, sitecdkcerts.Props{
		HostedZone: shared.DNS.HostedZone(),
	})
	return shared
}
