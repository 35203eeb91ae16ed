package main

import (
	"context"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/dev0psfyi/website/cmd/internal/logdrain"
	"github.com/dev0psfyi/website/cmd/internal/projcfg"
	"github.com/dev0psfyi/website/internal/logscan"
)

type LogsDrainCmd struct {
	DeploymentFlag
	QueueURL   string `name:"queue-url" help:"Queue URL. Defaults to the LogQueueUrl output of the deployment stack."`
	MaxBatches int    `name:"max-batches" help:"Stop after this many receives, 0 drains until the queue is empty."`
	Top        int    `default:"20" help:"Number of missed paths to show."`
	Verbose    bool   `short:"v" help:"Log every scanned object."`
}

func (c *LogsDrainCmd) Run(ctx context.Context, rep *reporter, cfg *projcfg.Config) error {
	t, err := resolveTarget(cfg, c.Deployment)
	if err != nil {
		return err
	}
	queueURL := c.QueueURL
	if queueURL == "" {
		outputs, err := deploymentOutputs(ctx, cfg, t)
		if err != nil {
			return err
		}
		if queueURL, err = requireOutput(outputs, "LogQueueUrl"); err != nil {
			return err
		}
	}

	logger, err := newLogger(c.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	awsCfg, err := loadAWSConfig(ctx, cfg, t.cctx.PrimaryRegion)
	if err != nil {
		return err
	}
	processor := logscan.NewProcessor(s3.NewFromConfig(awsCfg), logger)
	drainer := logdrain.New(sqs.NewFromConfig(awsCfg), processor, queueURL, logger)

	result, err := drainer.Drain(ctx, c.MaxBatches)
	if result != nil {
		reportDrain(rep, result, c.Top)
	}
	return err
}

func reportDrain(rep *reporter, result *logdrain.Result, top int) {
	rep.Section("Access logs")
	rep.Line("%d notifications processed, %d failed, %d log lines",
		result.Processed, result.Failed, result.Report.Lines)

	misses := result.Report.TopMisses()
	if top > 0 && len(misses) > top {
		misses = misses[:top]
	}
	rep.Section("Redirect candidates")
	rows := make([][]string, 0, len(misses))
	for _, m := range misses {
		rows = append(rows, []string{m.Path, strconv.Itoa(m.Count)})
	}
	rep.Table([]string{"PATH", "404s"}, rows)
}
