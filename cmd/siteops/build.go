package main

import (
	"github.com/dev0psfyi/website/cmd/internal/cienv"
	"github.com/dev0psfyi/website/cmd/internal/pkgmeta"
	"github.com/dev0psfyi/website/cmd/internal/projcfg"
)

type BuildCmd struct{}

func (c *BuildCmd) Run(rep *reporter, cfg *projcfg.Config, ci *cienv.Env) error {
	v, err := siteVersion(ci)
	if err != nil {
		return err
	}
	name, err := pkgmeta.StampFile(cfg.PackageFile(), v)
	if err != nil {
		return err
	}
	rep.Line("Building package %s (%s)", name, v)
	return nil
}
