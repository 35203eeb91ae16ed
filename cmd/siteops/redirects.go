package main

import (
	"context"
	"maps"
	"slices"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfrontkeyvaluestore"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/cockroachdb/errors"
	"github.com/dev0psfyi/website/cmd/internal/projcfg"
	"github.com/dev0psfyi/website/cmd/internal/redirectsync"
	"github.com/dev0psfyi/website/internal/redirectfile"
	"github.com/dev0psfyi/website/redirect"
	"github.com/dev0psfyi/website/redirect/redirectdynamo"
	"github.com/dev0psfyi/website/redirect/redirectkvs"
	"github.com/dev0psfyi/website/sitecdk/sitecdkutil"
)

// StoreFlags locate the redirect stores of a deployment.
type StoreFlags struct {
	DeploymentFlag
	Store  string `help:"Redirect store to work on (kvs or dynamo). Defaults to every store of the deployment, and to the table for reads."`
	KVSARN string `name:"kvs-arn" help:"KeyValueStore ARN. Defaults to the RedirectStoreArn output of the deployment stack."`
	Table  string `help:"DynamoDB table name. Defaults to the RedirectTableName output of the deployment stack."`
}

// storeLocation is where a deployment keeps its redirects. kinds lists the
// stores a command works on, with the one the redirector reads last.
type storeLocation struct {
	awsCfg aws.Config
	kvsARN string
	table  string
	kinds  []string
}

// storeKinds picks the stores for the --store flag. The edge function always
// reads the KeyValueStore and the redirector reads the table when there is one.
func storeKinds(flag string, hasTable bool) ([]string, error) {
	switch flag {
	case "":
		if hasTable {
			return []string{sitecdkutil.StoreKVS, sitecdkutil.StoreDynamo}, nil
		}
		return []string{sitecdkutil.StoreKVS}, nil
	case sitecdkutil.StoreKVS:
		return []string{flag}, nil
	case sitecdkutil.StoreDynamo:
		if !hasTable {
			return nil, errors.New("deployment has no redirect table, set --table")
		}
		return []string{flag}, nil
	default:
		return nil, errors.Newf("unknown redirect store %q, expected %s or %s",
			flag, sitecdkutil.StoreKVS, sitecdkutil.StoreDynamo)
	}
}

func (f *StoreFlags) locate(ctx context.Context, cfg *projcfg.Config) (*storeLocation, error) {
	t, err := resolveTarget(cfg, f.Deployment)
	if err != nil {
		return nil, err
	}
	loc := &storeLocation{kvsARN: f.KVSARN, table: f.Table}
	if loc.kvsARN == "" || (loc.table == "" && f.Store != sitecdkutil.StoreKVS) {
		outputs, err := deploymentOutputs(ctx, cfg, t)
		if err != nil {
			return nil, err
		}
		if loc.kvsARN == "" {
			if loc.kvsARN, err = requireOutput(outputs, "RedirectStoreArn"); err != nil {
				return nil, err
			}
		}
		if loc.table == "" {
			loc.table = outputs["RedirectTableName"]
		}
	}
	if loc.kinds, err = storeKinds(f.Store, loc.table != ""); err != nil {
		return nil, err
	}
	// The KeyValueStore data plane is global and signed for us-east-1, which
	// is also the only accepted primary region and holds the table.
	if loc.awsCfg, err = loadAWSConfig(ctx, cfg, t.cctx.PrimaryRegion); err != nil {
		return nil, err
	}
	return loc, nil
}

// readKind is the store list, get and resolve read from.
func (l *storeLocation) readKind() string {
	return l.kinds[len(l.kinds)-1]
}

func (l *storeLocation) name(kind string) string {
	if kind == sitecdkutil.StoreDynamo {
		return l.table
	}
	return l.kvsARN
}

func (l *storeLocation) target(kind string) (redirectsync.Target, error) {
	if kind == sitecdkutil.StoreDynamo {
		return redirectsync.NewTable(dynamodb.NewFromConfig(l.awsCfg), l.table)
	}
	return redirectsync.New(cloudfrontkeyvaluestore.NewFromConfig(l.awsCfg), l.kvsARN)
}

func (l *storeLocation) store(kind string) (redirect.Store, error) {
	if kind == sitecdkutil.StoreDynamo {
		return redirectdynamo.Open(dynamodb.NewFromConfig(l.awsCfg), l.table)
	}
	return redirectkvs.Open(cloudfrontkeyvaluestore.NewFromConfig(l.awsCfg), l.kvsARN)
}

type RedirectsSyncCmd struct {
	StoreFlags
	Prune  bool `help:"Delete keys that are not in the dynamic section of the redirects file."`
	DryRun bool `name:"dry-run" help:"Show the changes without writing them."`
}

func (c *RedirectsSyncCmd) Run(ctx context.Context, rep *reporter, cfg *projcfg.Config) error {
	file, err := redirectfile.Load(cfg.RedirectsFile())
	if err != nil {
		return err
	}
	loc, err := c.locate(ctx, cfg)
	if err != nil {
		return err
	}

	for _, kind := range loc.kinds {
		t, err := loc.target(kind)
		if err != nil {
			return err
		}
		plan, err := redirectsync.Sync(ctx, t, file.Dynamic, c.Prune, c.DryRun)
		if err != nil && plan.Empty() {
			return errors.Wrapf(err, "sync %s", kind)
		}
		rows := make([][]string, 0, len(plan.Puts)+len(plan.Deletes))
		for _, e := range plan.Puts {
			rows = append(rows, []string{"put", e.Key, e.Value})
		}
		for _, key := range plan.Deletes {
			rows = append(rows, []string{"delete", key, ""})
		}
		heading := "Redirect sync: " + loc.name(kind)
		if c.DryRun {
			heading += " (dry run)"
		}
		rep.Section(heading)
		rep.Table([]string{"ACTION", "KEY", "VALUE"}, rows)
		rep.Line("%d unchanged", plan.Unchanged)
		if err != nil {
			return errors.Wrapf(err, "sync %s", kind)
		}
	}
	return nil
}

type RedirectsListCmd struct {
	StoreFlags
}

func (c *RedirectsListCmd) Run(ctx context.Context, rep *reporter, cfg *projcfg.Config) error {
	loc, err := c.locate(ctx, cfg)
	if err != nil {
		return err
	}
	t, err := loc.target(loc.readKind())
	if err != nil {
		return err
	}
	entries, err := t.List(ctx)
	if err != nil {
		return err
	}

	rep.Section(strconv.Itoa(len(entries)) + " redirects in " + loc.name(loc.readKind()))
	rows := make([][]string, 0, len(entries))
	for _, key := range slices.Sorted(maps.Keys(entries)) {
		rows = append(rows, []string{key, entries[key]})
	}
	rep.Table([]string{"KEY", "TARGET"}, rows)
	return nil
}

type RedirectsGetCmd struct {
	StoreFlags
	Key string `arg:"" help:"Request path, e.g. /talk."`
}

func (c *RedirectsGetCmd) Run(ctx context.Context, rep *reporter, cfg *projcfg.Config) error {
	loc, err := c.locate(ctx, cfg)
	if err != nil {
		return err
	}
	store, err := loc.store(loc.readKind())
	if err != nil {
		return err
	}
	target, err := store.Get(ctx, c.Key)
	if errors.Is(err, redirect.ErrKeyNotFound) {
		return errors.Newf("key %q not found", c.Key)
	}
	if err != nil {
		return err
	}
	rep.Line("%s", target)
	return nil
}

type RedirectsResolveCmd struct {
	StoreFlags
	Path    string `arg:"" help:"Request path, e.g. /gh."`
	Offline bool   `help:"Use only the static redirects of the redirects file."`
	Verbose bool   `short:"v" help:"Log resolver diagnostics."`
}

func (c *RedirectsResolveCmd) Run(ctx context.Context, rep *reporter, cfg *projcfg.Config) error {
	file, err := redirectfile.Load(cfg.RedirectsFile())
	if err != nil {
		return err
	}
	logger, err := newLogger(c.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var store redirect.Store
	if !c.Offline {
		store = redirect.AcquireStore(logger, func() (redirect.Store, error) {
			loc, err := c.locate(ctx, cfg)
			if err != nil {
				return nil, err
			}
			return loc.store(loc.readKind())
		})
	}

	resolver := redirect.NewResolver(redirect.StaticMap(file.Static), store, redirect.WithLogger(logger))
	resp := resolver.Resolve(ctx, redirect.Request{URI: c.Path})
	if resp.Kind == redirect.KindRedirect {
		rep.Line("%d %s -> %s", resp.StatusCode, resp.StatusDescription, resp.Location)
		return nil
	}
	rep.Line("%d %s", resp.StatusCode, resp.StatusDescription)
	return nil
}
