// Package sitecdkdns references the Route53 hosted zone of the site. The zone
// is created outside the stacks, when the domain is registered, and is only
// imported here.
package sitecdkdns

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/dev0psfyi/website/sitecdk/sitecdkutil"
)

// DNS gives access to the hosted zone.
type DNS interface {
	HostedZone() awsroute53.IHostedZone
}

// Props configures the DNS construct.
type Props struct {
	// ZoneDomainName is the zone name. Defaults to the hosted name from the
	// config.
	ZoneDomainName *string
	// HostedZoneID imports the zone without a lookup when set. Defaults to the
	// hosted zone id from the config; when that is empty too the zone is
	// looked up by name at synth time, which needs account credentials.
	HostedZoneID *string
}

type dns struct {
	hostedZone awsroute53.IHostedZone
}

// New imports the hosted zone.
func New(scope constructs.Construct, props Props) DNS {
	scope = constructs.NewConstruct(scope, jsii.String("DNS"))
	cfg := sitecdkutil.ConfigFromScope(scope)

	zoneName := props.ZoneDomainName
	if zoneName == nil {
		zoneName = jsii.String(cfg.HostedName)
	}
	zoneID := props.HostedZoneID
	if zoneID == nil && cfg.HostedZoneID != "" {
		zoneID = jsii.String(cfg.HostedZoneID)
	}

	con := &dns{}
	if zoneID != nil {
		con.hostedZone = awsroute53.HostedZone_FromHostedZoneAttributes(scope, jsii.String("HostedZone"),
			&awsroute53.HostedZoneAttributes{
				HostedZoneId: zoneID,
				ZoneName:     zoneName,
			})
	} else {
		con.hostedZone = awsroute53.HostedZone_FromLookup(scope, jsii.String("HostedZone"),
			&awsroute53.HostedZoneProviderProps{
				DomainName: zoneName,
			})
	}
	return con
}

func (d *dns) HostedZone() awsroute53.IHostedZone {
	return d.hostedZone
}
