package main

import (
	"context"

	"github.com/dev0psfyi/website/cmd/internal/cienv"
	"github.com/dev0psfyi/website/cmd/internal/cmdexec"
	"github.com/dev0psfyi/website/cmd/internal/projcfg"
)

type DiffCmd struct {
	DeploymentFlag
}

func (c *DiffCmd) Run(ctx context.Context, cfg *projcfg.Config, ci *cienv.Env) error {
	t, err := resolveTarget(cfg, c.Deployment)
	if err != nil {
		return err
	}
	v, err := siteVersion(ci)
	if err != nil {
		return err
	}
	args, err := cdkArgs(cfg, contextValues(cfg, v, t.deployment, nil))
	if err != nil {
		return err
	}
	args = append([]string{"diff"}, args...)
	args = append(args, t.stackNames()...)
	return cmdexec.Run(ctx, cfg.CdkDir(), "cdk", args...)
}
