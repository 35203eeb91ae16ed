package main

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
	"github.com/dev0psfyi/website/infra/cdk"
	"github.com/dev0psfyi/website/sitecdk/sitecdkutil"
)

func main() {
	defer jsii.Close()
	app := awscdk.NewApp(nil)

	sitecdkutil.SetupApp(app,
		cdk.NewShared,
		cdk.NewDeployment,
	)

	app.Synth(nil)
}
