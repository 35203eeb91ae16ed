package main

import (
	"context"
	"os"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dev0psfyi/website/cmd/internal/contentsync"
	"github.com/dev0psfyi/website/cmd/internal/projcfg"
	"github.com/dev0psfyi/website/sitecdk/sitecdkcontent"
)

type PublishCmd struct {
	DeploymentFlag
	Bucket string `help:"Content bucket. Defaults to the ContentBucket output of the deployment stack."`
}

func (c *PublishCmd) Run(ctx context.Context, rep *reporter, cfg *projcfg.Config) error {
	t, err := resolveTarget(cfg, c.Deployment)
	if err != nil {
		return err
	}
	bucket := c.Bucket
	if bucket == "" {
		outputs, err := deploymentOutputs(ctx, cfg, t)
		if err != nil {
			return err
		}
		if bucket, err = requireOutput(outputs, "ContentBucket"); err != nil {
			return err
		}
	}

	awsCfg, err := loadAWSConfig(ctx, cfg, t.cctx.PrimaryRegion)
	if err != nil {
		return err
	}
	objects, err := contentsync.Upload(ctx, s3.NewFromConfig(awsCfg),
		os.DirFS(cfg.ContentDir()), bucket, sitecdkcontent.OriginPrefix)
	if err != nil {
		return err
	}

	rep.Section("Published to s3://" + bucket)
	rows := make([][]string, 0, len(objects))
	for _, o := range objects {
		rows = append(rows, []string{o.Key, o.ContentType, o.CacheControl, strconv.Itoa(o.Size)})
	}
	rep.Table([]string{"KEY", "CONTENT-TYPE", "CACHE-CONTROL", "BYTES"}, rows)
	return nil
}
