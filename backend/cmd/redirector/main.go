// Command redirector serves the site's redirects from Lambda.
package main

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfrontkeyvaluestore"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dev0psfyi/website/backend/internal/redirecthttp"
	"github.com/dev0psfyi/website/sitelwa"
	"go.uber.org/fx"
)

func main() {
	sitelwa.NewApp[redirecthttp.Env](
		redirecthttp.Register,
		sitelwa.WithAWSClient(func(cfg aws.Config) *sitelwa.InRegion[cloudfrontkeyvaluestore.Client] {
			return sitelwa.NewInRegion(cloudfrontkeyvaluestore.NewFromConfig(cfg), cfg.Region)
		}, sitelwa.ForRegion(redirecthttp.KVSRegion)),
		sitelwa.WithAWSClient(func(cfg aws.Config) *sitelwa.Primary[dynamodb.Client] {
			return sitelwa.NewPrimary(dynamodb.NewFromConfig(cfg))
		}, sitelwa.ForPrimaryRegion()),
		sitelwa.WithAWSClient(func(cfg aws.Config) *s3.Client {
			return s3.NewFromConfig(cfg)
		}),
		sitelwa.WithFx(fx.Provide(
			redirecthttp.NewResolver,
			redirecthttp.NewLogProcessor,
			redirecthttp.ProvideHandlers,
		)),
	).Run()
}
