// Package awslookup resolves the account and hosted zone a deployment
// targets.
package awslookup

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/cockroachdb/errors"
)

// IdentityAPI is the subset of the STS client used here.
type IdentityAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput,
		optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// ZonesAPI is the subset of the Route53 client used here.
type ZonesAPI interface {
	ListHostedZonesByName(ctx context.Context, params *route53.ListHostedZonesByNameInput,
		optFns ...func(*route53.Options)) (*route53.ListHostedZonesByNameOutput, error)
}

// AccountID returns the account of the current credentials.
func AccountID(ctx context.Context, api IdentityAPI) (string, error) {
	out, err := api.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", errors.Wrap(err, "get caller identity")
	}
	account := aws.ToString(out.Account)
	if account == "" {
		return "", errors.New("caller identity has no account")
	}
	return account, nil
}

// HostedZoneID returns the id, without the "/hostedzone/" prefix, of the
// public hosted zone named name.
func HostedZoneID(ctx context.Context, api ZonesAPI, name string) (string, error) {
	fqdn := strings.TrimSuffix(name, ".") + "."
	out, err := api.ListHostedZonesByName(ctx, &route53.ListHostedZonesByNameInput{
		DNSName:  aws.String(fqdn),
		MaxItems: aws.Int32(10),
	})
	if err != nil {
		return "", errors.Wrapf(err, "list hosted zones for %s", name)
	}
	for _, zone := range out.HostedZones {
		if aws.ToString(zone.Name) != fqdn {
			continue
		}
		if zone.Config != nil && zone.Config.PrivateZone {
			continue
		}
		return strings.TrimPrefix(aws.ToString(zone.Id), "/hostedzone/"), nil
	}
	return "", errors.Newf("no public hosted zone named %s", name)
}
