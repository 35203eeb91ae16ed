// Command siteops builds, deploys and operates the website.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/cockroachdb/errors"
	"github.com/dev0psfyi/website/cmd/internal/cienv"
	"github.com/dev0psfyi/website/cmd/internal/projcfg"
	"github.com/dev0psfyi/website/cmd/internal/version"
)

type App struct {
	Version VersionCmd `cmd:"" help:"Print the site version derived from the CI environment."`
	Build   BuildCmd   `cmd:"" help:"Write the site version into the package file."`
	Synth   SynthCmd   `cmd:"" help:"Synthesize and validate the CloudFormation templates."`
	Diff    DiffCmd    `cmd:"" help:"Show the CDK diff for a deployment."`
	Deploy  DeployCmd  `cmd:"" help:"Synthesize, validate and, on the production ref, deploy."`
	Publish PublishCmd `cmd:"" help:"Upload the site content to the content bucket."`

	Redirects struct {
		Sync    RedirectsSyncCmd    `cmd:"" help:"Sync dynamic redirects to the redirect stores."`
		List    RedirectsListCmd    `cmd:"" help:"List the redirect store entries."`
		Get     RedirectsGetCmd     `cmd:"" help:"Show the target of one key."`
		Resolve RedirectsResolveCmd `cmd:"" help:"Resolve a path the way the edge does."`
	} `cmd:"" help:"Redirect commands."`

	Logs struct {
		Drain LogsDrainCmd `cmd:"" help:"Process queued access log notifications and report misses."`
	} `cmd:"" help:"Access log commands."`

	ToolVersion kong.VersionFlag `name:"tool-version" help:"Show the siteops version."`
}

// exitError makes main exit 1 without printing; the command already
// reported the failure.
type exitError struct {
	err error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func main() {
	cfg, err := projcfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	ci, err := cienv.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var app App
	kctx := kong.Parse(&app,
		kong.Name("siteops"),
		kong.Description("dev0ps.fyi website operations."),
		kong.Vars{"version": version.Version},
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.Bind(cfg),
		kong.Bind(ci),
		kong.Bind(newReporter(os.Stdout, os.Stderr)),
	)

	if err := kctx.Run(); err != nil {
		var exitErr *exitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
