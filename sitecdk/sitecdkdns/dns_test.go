//nolint:paralleltest // jsii runtime doesn't support parallel tests
package sitecdkdns_test

import (
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
	"github.com/dev0psfyi/website/sitecdk/sitecdkdns"
	"github.com/dev0psfyi/website/sitecdk/sitecdkutil"
)

func newStack(cfg *sitecdkutil.Config) awscdk.Stack {
	app := awscdk.NewApp(nil)
	sitecdkutil.StoreConfig(app, cfg)
	return awscdk.NewStack(app, jsii.String("Test"), &awscdk.StackProps{
		Env: &awscdk.Environment{
			Account: jsii.String("123456789012"),
			Region:  jsii.String("us-east-1"),
		},
	})
}

func TestNew_ImportsZoneByID(t *testing.T) {
	defer jsii.Close()

	stack := newStack(&sitecdkutil.Config{
		Qualifier:    "devfyi",
		HostedName:   "dev0ps.fyi",
		HostedZoneID: "Z0123456789ABC",
	})
	zone := sitecdkdns.New(stack, sitecdkdns.Props{}).HostedZone()

	if got := *zone.HostedZoneId(); got != "Z0123456789ABC" {
		t.Errorf("HostedZoneId = %q", got)
	}
	if got := *zone.ZoneName(); got != "dev0ps.fyi" {
		t.Errorf("ZoneName = %q", got)
	}
}

func TestNew_PropsOverrideConfig(t *testing.T) {
	defer jsii.Close()

	stack := newStack(&sitecdkutil.Config{
		Qualifier:    "devfyi",
		HostedName:   "dev0ps.fyi",
		HostedZoneID: "Z0123456789ABC",
	})
	zone := sitecdkdns.New(stack, sitecdkdns.Props{
		ZoneDomainName: jsii.String("example.org"),
		HostedZoneID:   jsii.String("ZOTHER"),
	}).HostedZone()

	if got := *zone.HostedZoneId(); got != "ZOTHER" {
		t.Errorf("HostedZoneId = %q", got)
	}
	if got := *zone.ZoneName(); got != "example.org" {
		t.Errorf("ZoneName = %q", got)
	}
}
