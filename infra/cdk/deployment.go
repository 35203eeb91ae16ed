package cdk

import (
	"encoding/json"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
	"github.com/dev0psfyi/website/internal/redirectfile"
	"github.com/dev0psfyi/website/sitecdk/sitecdkcdn"
	"github.com/dev0psfyi/website/sitecdk/sitecdkcerts"
	"github.com/dev0psfyi/website/sitecdk/sitecdkcontent"
	"github.com/dev0psfyi/website/sitecdk/sitecdkdynamo"
	"github.com/dev0psfyi/website/sitecdk/sitecdklogpipeline"
	"github.com/dev0psfyi/website/sitecdk/sitecdklwalambda"
	"github.com/dev0psfyi/website/sitecdk/sitecdkredirects"
	"github.com/dev0psfyi/website/sitecdk/sitecdkutil"
)

// RedirectorEntry is the redirector command, relative to this directory.
const RedirectorEntry = "../../backend/cmd/redirector"

// NewDeployment creates one deployment of the website.
func NewDeployment(stack awscdk.Stack, shared *Shared, deploymentIdent string) {
	cfg := sitecdkutil.ConfigFromScope(stack)
	domainName := cfg.SiteDomainName(deploymentIdent)

	static := loadStaticRedirects(cfg.RedirectsFile)
	staticJSON, err := json.Marshal(static)
	if err != nil {
		panic(err)
	}

	content := sitecdkcontent.New(stack, sitecdkcontent.Props{
		BucketName: jsii.String(domainName),
	})
	logs := sitecdklogpipeline.New(stack, sitecdklogpipeline.Props{
		BucketName: jsii.String(domainName + ".logs"),
		QueueName:  jsii.String(cfg.ServiceName + "-LogProcessing-" + deploymentIdent),
	})
	redirects := sitecdkredirects.New(stack, sitecdkredirects.Props{
		StoreName:       jsii.String(cfg.ServiceName + "-RedirectMap-" + deploymentIdent),
		FunctionName:    jsii.String(*stack.StackName() + "-RequestInterceptor"),
		StaticRedirects: static,
	})

	env := map[string]*string{
		"SITE_REDIRECT_STORE":       jsii.String(cfg.RedirectStore),
		"SITE_REDIRECT_KVS_ARN":     redirects.Store().KeyValueStoreArn(),
		"SITE_STATIC_REDIRECTS":     jsii.String(string(staticJSON)),
		"SITE_REDIRECT_PATH_PREFIX": jsii.String(sitecdkcdn.RedirectorPathPrefix),
	}
	var table sitecdkdynamo.Dynamo
	if cfg.RedirectStore == sitecdkutil.StoreDynamo {
		table = sitecdkdynamo.New(stack, sitecdkdynamo.Props{})
		env["SITE_REDIRECT_TABLE_NAME"] = table.Table().TableName()
	}

	redirector := sitecdklwalambda.New(stack, sitecdklwalambda.Props{
		Entry:       jsii.String(RedirectorEntry),
		Environment: &env,
		FunctionURL: true,
	})
	redirects.GrantRead(redirector.Function())

	processor := sitecdklwalambda.New(stack, sitecdklwalambda.Props{
		Entry:           jsii.String(RedirectorEntry),
		Environment:     &env,
		PassThroughPath: jsii.String("/l/process-logs"),
		Timeout:         awscdk.Duration_Minutes(jsii.Number(5)),
	})
	redirects.GrantRead(processor.Function())
	logs.ConnectProcessor(processor.Function(), cfg.LogProcessing)

	if table != nil {
		table.GrantReadData(redirector.Function())
		table.GrantReadData(processor.Function())
	}

	sitecdkcdn.New(stack, sitecdkcdn.Props{
		DomainName:         jsii.String(domainName),
		HostedZone:         shared.DNS.HostedZone(),
		Certificate:        sitecdkcerts.LookupCertificate(stack),
		ContentBucket:      content.Bucket(),
		OriginPath:         jsii.String(sitecdkcontent.OriginPrefix),
		LogBucket:          logs.Bucket(),
		LogFilePrefix:      jsii.String(sitecdklogpipeline.AccessLogPrefix),
		RequestInterceptor: redirects.Function(),
		RedirectorURL:      redirector.URL(),
	})
}

func loadStaticRedirects(path string) map[string]string {
	if path == "" {
		return map[string]string{}
	}
	file, err := redirectfile.Load(path)
	if err != nil {
		panic(err)
	}
	return file.Static
}
