package main

import (
	"context"

	"github.com/dev0psfyi/website/cmd/internal/cienv"
	"github.com/dev0psfyi/website/cmd/internal/projcfg"
)

type SynthCmd struct {
	DeploymentFlag
}

func (c *SynthCmd) Run(ctx context.Context, rep *reporter, cfg *projcfg.Config, ci *cienv.Env) error {
	t, err := resolveTarget(cfg, c.Deployment)
	if err != nil {
		return err
	}
	v, err := siteVersion(ci)
	if err != nil {
		return err
	}
	return synthAndValidate(ctx, rep, cfg, contextValues(cfg, v, t.deployment, nil), nil)
}
