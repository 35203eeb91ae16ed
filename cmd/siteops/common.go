package main

import (
	"context"
	"maps"
	"path/filepath"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/cockroachdb/errors"
	"github.com/dev0psfyi/website/cmd/internal/cdkctx"
	"github.com/dev0psfyi/website/cmd/internal/cfnread"
	"github.com/dev0psfyi/website/cmd/internal/cfnvalidate"
	"github.com/dev0psfyi/website/cmd/internal/cienv"
	"github.com/dev0psfyi/website/cmd/internal/cmdexec"
	"github.com/dev0psfyi/website/cmd/internal/ctxargs"
	"github.com/dev0psfyi/website/cmd/internal/projcfg"
	"github.com/dev0psfyi/website/sitecdk/sitecdkutil"
	"go.uber.org/zap"
)

// cloudAssemblyDir is where cdk synth writes, relative to the CDK app.
const cloudAssemblyDir = "cdk.out"

// DeploymentFlag selects the deployment a command works on.
type DeploymentFlag struct {
	Deployment string `short:"d" help:"Deployment name (e.g. Stag, Prod). Defaults to cdk.deployment of siteops.toml."`
}

// target is a deployment resolved against the CDK context.
type target struct {
	cctx       *cdkctx.CDKContext
	deployment string
}

func (t target) stackNames() []string {
	return []string{t.cctx.SharedStackName(), t.cctx.DeploymentStackName(t.deployment)}
}

func resolveTarget(cfg *projcfg.Config, deployment string) (target, error) {
	cctx, err := cdkctx.Load(cfg.CdkDir())
	if err != nil {
		return target{}, err
	}
	if deployment == "" {
		deployment = cfg.Cdk.Deployment
	}
	if !cctx.IsValidDeployment(deployment) {
		return target{}, errors.Newf("unknown deployment %q, expected one of %v", deployment, cctx.Deployments)
	}
	return target{cctx: cctx, deployment: deployment}, nil
}

// contextValues are the values {{name}} placeholders of cdk.context resolve
// to. extra adds or overrides values.
func contextValues(cfg *projcfg.Config, ver, deployment string, extra map[string]string) map[string]string {
	values := map[string]string{
		"version":      ver,
		"hosted-name":  cfg.Site.HostedName,
		"service-name": cfg.Site.ServiceName,
		"deployment":   deployment,
	}
	maps.Copy(values, extra)
	return values
}

// cdkArgs returns the -c arguments for cdk: the site settings siteops owns,
// then cdk.context of siteops.toml, then the profile flag.
func cdkArgs(cfg *projcfg.Config, values map[string]string) ([]string, error) {
	raw := map[string]string{
		sitecdkutil.ContextPrefix + "hosted-name":    cfg.Site.HostedName,
		sitecdkutil.ContextPrefix + "service-name":   cfg.Site.ServiceName,
		sitecdkutil.ContextPrefix + "version":        "{{version}}",
		sitecdkutil.ContextPrefix + "redirects-file": cfg.RedirectsFile(),
	}
	if values["hosted-zone-id"] != "" {
		raw[sitecdkutil.ContextPrefix+"hosted-zone-id"] = "{{hosted-zone-id}}"
	}
	maps.Copy(raw, cfg.Cdk.Context)

	args, err := ctxargs.Args(raw, values)
	if err != nil {
		return nil, errors.Wrap(err, "cdk.context")
	}
	return append(args, cfg.AwsArgs()...), nil
}

func siteVersion(ci *cienv.Env) (string, error) {
	v, err := ci.Version()
	if err != nil {
		return "", errors.Wrap(err, "derive version")
	}
	return v, nil
}

// synthAndValidate synthesizes the app into cdk.out and validates every
// template. Warnings are reported, errors fail.
func synthAndValidate(ctx context.Context, rep *reporter, cfg *projcfg.Config,
	values, env map[string]string,
) error {
	args, err := cdkArgs(cfg, values)
	if err != nil {
		return err
	}
	synth := cmdexec.Command{
		Dir:  cfg.CdkDir(),
		Env:  env,
		Name: "cdk",
		Args: append([]string{"synth", "--quiet", "--output", cloudAssemblyDir}, args...),
	}
	if err := synth.Run(ctx); err != nil {
		return errors.Wrap(err, "cdk synth")
	}

	results, err := cfnvalidate.Dir(filepath.Join(cfg.CdkDir(), cloudAssemblyDir))
	if err != nil {
		return err
	}
	reportValidation(rep, results)
	return cfnvalidate.Failed(results)
}

func reportValidation(rep *reporter, results []*cfnvalidate.Result) {
	rep.Section("Template validation")
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		status := "ok"
		if !r.Passed() {
			status = "FAILED"
		}
		rows = append(rows, []string{r.Template, status, strconv.Itoa(len(r.Errors)), strconv.Itoa(len(r.Warnings))})
	}
	rep.Table([]string{"TEMPLATE", "STATUS", "ERRORS", "WARNINGS"}, rows)

	for _, r := range results {
		for _, msg := range r.Errors {
			rep.Error("%s: error: %s", r.Template, msg)
		}
		for _, msg := range r.Warnings {
			rep.Line("%s: warning: %s", r.Template, msg)
		}
	}
}

func loadAWSConfig(ctx context.Context, cfg *projcfg.Config, region string) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.Cdk.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Cdk.Profile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, errors.Wrap(err, "load aws config")
	}
	return awsCfg, nil
}

// deploymentOutputs reads the outputs of the deployment stack.
func deploymentOutputs(ctx context.Context, cfg *projcfg.Config, t target) (map[string]string, error) {
	return cfnread.StackOutputs(ctx, t.cctx.PrimaryRegion, t.cctx.DeploymentStackName(t.deployment), cfg.AwsArgs()...)
}

func requireOutput(outputs map[string]string, key string) (string, error) {
	v, ok := outputs[key]
	if !ok || v == "" {
		return "", errors.Newf("stack output %s not found, is the deployment up to date?", key)
	}
	return v, nil
}

// newLogger logs to stderr, at debug level when verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	zcfg.DisableStacktrace = true
	if !verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return logger, nil
}
