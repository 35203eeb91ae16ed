// Package sitecdkutil sets up the CDK app for the website: it reads and
// validates the CDK context, creates the shared and per-deployment stacks and
// provides naming helpers for the constructs in them.
//
//	func main() {
//	    defer jsii.Close()
//	    app := awscdk.NewApp(nil)
//
//	    sitecdkutil.SetupApp(app,
//	        func(stack awscdk.Stack) *Shared { return NewShared(stack) },
//	        func(stack awscdk.Stack, shared *Shared, deploymentIdent string) {
//	            NewDeployment(stack, shared, deploymentIdent)
//	        },
//	    )
//
//	    app.Synth(nil)
//	}
//
// # CDK context
//
//	{
//	  "siteops-qualifier": "devfyi",
//	  "siteops-primary-region": "us-east-1",
//	  "siteops-deployments": ["Prod"],
//	  "siteops-protected-deployments": ["Prod"],
//	  "siteops-hosted-name": "dev0ps.fyi",
//	  "siteops-service-name": "dev0ps-fyi",
//	  "siteops-redirect-store": "kvs",
//	  "siteops-redirects-file": "../../../redirects.yaml"
//	}
//
// siteops-hosted-zone-id, siteops-version and siteops-log-processing are
// usually passed with -c by the siteops CLI.
package sitecdkutil
