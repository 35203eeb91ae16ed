package main

import (
	"context"
	"maps"
	"slices"

	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/cockroachdb/errors"
	"github.com/dev0psfyi/website/cmd/internal/awslookup"
	"github.com/dev0psfyi/website/cmd/internal/cienv"
	"github.com/dev0psfyi/website/cmd/internal/cmdexec"
	"github.com/dev0psfyi/website/cmd/internal/projcfg"
)

type DeployCmd struct {
	DeploymentFlag
	Force bool `help:"Deploy even when not building the production ref."`
}

func (c *DeployCmd) Run(ctx context.Context, rep *reporter, cfg *projcfg.Config, ci *cienv.Env) error {
	if err := c.deploy(ctx, rep, cfg, ci); err != nil {
		rep.Error("Failed to deploy website: %v", err)
		return &exitError{err: err}
	}
	return nil
}

func (c *DeployCmd) deploy(ctx context.Context, rep *reporter, cfg *projcfg.Config, ci *cienv.Env) error {
	t, err := resolveTarget(cfg, c.Deployment)
	if err != nil {
		return err
	}
	v, err := siteVersion(ci)
	if err != nil {
		return err
	}

	if !c.Force && !ci.IsProductionRef(cfg.Cdk.ProductionRef) {
		if err := synthAndValidate(ctx, rep, cfg, contextValues(cfg, v, t.deployment, nil), nil); err != nil {
			return err
		}
		rep.Line("Skipping deploy of %s: ref %q is not %s", v, ci.Ref, cfg.Cdk.ProductionRef)
		return nil
	}

	awsCfg, err := loadAWSConfig(ctx, cfg, t.cctx.PrimaryRegion)
	if err != nil {
		return err
	}
	account, err := awslookup.AccountID(ctx, sts.NewFromConfig(awsCfg))
	if err != nil {
		return err
	}
	zoneID, err := awslookup.HostedZoneID(ctx, route53.NewFromConfig(awsCfg), cfg.Site.HostedName)
	if err != nil {
		return err
	}

	values := contextValues(cfg, v, t.deployment, map[string]string{
		"account":        account,
		"hosted-zone-id": zoneID,
	})
	env := map[string]string{
		"CDK_DEFAULT_ACCOUNT": account,
		"CDK_DEFAULT_REGION":  t.cctx.PrimaryRegion,
	}
	if err := synthAndValidate(ctx, rep, cfg, values, env); err != nil {
		return err
	}

	rep.Section("Deploying " + t.deployment + " " + v)
	args := []string{
		"deploy",
		"--app", cloudAssemblyDir,
		"--require-approval", "never",
		"--change-set-name", ci.ChangeSetName(cfg.Site.ServiceName),
	}
	args = append(args, cfg.AwsArgs()...)
	args = append(args, t.stackNames()...)
	if err := (cmdexec.Command{Dir: cfg.CdkDir(), Env: env, Name: "cdk", Args: args}).Run(ctx); err != nil {
		return errors.Wrap(err, "cdk deploy")
	}

	outputs, err := deploymentOutputs(ctx, cfg, t)
	if err != nil {
		return err
	}
	rep.Section("Stack outputs")
	rows := make([][]string, 0, len(outputs))
	for _, key := range slices.Sorted(maps.Keys(outputs)) {
		rows = append(rows, []string{key, outputs[key]})
	}
	rep.Table([]string{"KEY", "VALUE"}, rows)
	return nil
}
