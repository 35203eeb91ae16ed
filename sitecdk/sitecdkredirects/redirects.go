// Package sitecdkredirects creates the redirect KeyValueStore and the
// CloudFront viewer-request function that reads it.
package sitecdkredirects

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/dev0psfyi/website/edgefn"
)

// Redirects gives access to the redirect store and the edge function.
type Redirects interface {
	Store() awscloudfront.IKeyValueStore
	Function() awscloudfront.IFunction
	// GrantRead allows grantee to read keys through the KeyValueStore API.
	GrantRead(grantee awsiam.IGrantable)
}

// Props configures the Redirects construct.
type Props struct {
	// StoreName names the KeyValueStore. Required.
	StoreName *string
	// FunctionName names the CloudFront Function. Required.
	FunctionName *string
	// StaticRedirects are compiled into the function code.
	StaticRedirects map[string]string
}

type redirects struct {
	store    awscloudfront.IKeyValueStore
	function awscloudfront.IFunction
}

// New creates the store, the function and a "RedirectStoreArn" output. It
// panics when the function code cannot be rendered.
func New(scope constructs.Construct, props Props) Redirects {
	scope = constructs.NewConstruct(scope, jsii.String("Redirects"))
	con := &redirects{}

	con.store = awscloudfront.NewKeyValueStore(scope, jsii.String("Store"), &awscloudfront.KeyValueStoreProps{
		KeyValueStoreName: props.StoreName,
		Comment:           jsii.String("Redirect targets keyed by request path"),
	})

	code, err := edgefn.Render(edgefn.Config{
		StoreID:         *con.store.KeyValueStoreId(),
		StaticRedirects: props.StaticRedirects,
	})
	if err != nil {
		panic(err)
	}

	con.function = awscloudfront.NewFunction(scope, jsii.String("RequestInterceptor"), &awscloudfront.FunctionProps{
		FunctionName:  props.FunctionName,
		Comment:       props.FunctionName,
		Code:          awscloudfront.FunctionCode_FromInline(jsii.String(code)),
		Runtime:       awscloudfront.FunctionRuntime_JS_2_0(),
		KeyValueStore: con.store,
		AutoPublish:   jsii.Bool(true),
	})

	awscdk.NewCfnOutput(scope, jsii.String("StoreOutput"), &awscdk.CfnOutputProps{
		Key:         jsii.String("RedirectStoreArn"),
		Description: jsii.String("CloudFront KeyValueStore holding the redirect map"),
		Value:       con.store.KeyValueStoreArn(),
	})

	return con
}

func (r *redirects) Store() awscloudfront.IKeyValueStore {
	return r.store
}

func (r *redirects) Function() awscloudfront.IFunction {
	return r.function
}

func (r *redirects) GrantRead(grantee awsiam.IGrantable) {
	awsiam.Grant_AddToPrincipal(&awsiam.GrantOnPrincipalOptions{
		Grantee:      grantee,
		ResourceArns: &[]*string{r.store.KeyValueStoreArn()},
		Actions: &[]*string{
			jsii.String("cloudfront-keyvaluestore:GetKey"),
			jsii.String("cloudfront-keyvaluestore:DescribeKeyValueStore"),
		},
	})
}
