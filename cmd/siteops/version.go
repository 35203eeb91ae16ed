package main

import (
	"github.com/dev0psfyi/website/cmd/internal/cienv"
)

type VersionCmd struct{}

func (c *VersionCmd) Run(rep *reporter, ci *cienv.Env) error {
	v, err := siteVersion(ci)
	if err != nil {
		return err
	}
	rep.Line("%s", v)
	return nil
}
