// Package redirectsync reconciles the dynamic redirects of redirects.yaml
// with a CloudFront KeyValueStore or a DynamoDB redirect table.
package redirectsync

import (
	"context"
	"maps"
	"slices"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfrontkeyvaluestore"
	"github.com/cockroachdb/errors"
	"github.com/dev0psfyi/website/redirect/redirectkvs"
)

// API is the subset of the KeyValueStore data plane client used for syncing.
type API interface {
	redirectkvs.API
	DescribeKeyValueStore(ctx context.Context, params *cloudfrontkeyvaluestore.DescribeKeyValueStoreInput,
		optFns ...func(*cloudfrontkeyvaluestore.Options)) (*cloudfrontkeyvaluestore.DescribeKeyValueStoreOutput, error)
	ListKeys(ctx context.Context, params *cloudfrontkeyvaluestore.ListKeysInput,
		optFns ...func(*cloudfrontkeyvaluestore.Options)) (*cloudfrontkeyvaluestore.ListKeysOutput, error)
	PutKey(ctx context.Context, params *cloudfrontkeyvaluestore.PutKeyInput,
		optFns ...func(*cloudfrontkeyvaluestore.Options)) (*cloudfrontkeyvaluestore.PutKeyOutput, error)
	DeleteKey(ctx context.Context, params *cloudfrontkeyvaluestore.DeleteKeyInput,
		optFns ...func(*cloudfrontkeyvaluestore.Options)) (*cloudfrontkeyvaluestore.DeleteKeyOutput, error)
}

// Entry is one key and its target.
type Entry struct {
	Key   string
	Value string
}

// Plan lists the writes that make the store match the desired entries.
type Plan struct {
	Puts      []Entry
	Deletes   []string
	Unchanged int
}

// Empty reports whether the plan has nothing to write.
func (p Plan) Empty() bool {
	return len(p.Puts) == 0 && len(p.Deletes) == 0
}

// Diff compares current store content with desired entries. Keys only in
// the store are deleted when prune is set. Puts and deletes are sorted by
// key.
func Diff(current, desired map[string]string, prune bool) Plan {
	var plan Plan
	for _, key := range slices.Sorted(maps.Keys(desired)) {
		value := desired[key]
		if have, ok := current[key]; ok && have == value {
			plan.Unchanged++
			continue
		}
		plan.Puts = append(plan.Puts, Entry{Key: key, Value: value})
	}
	if prune {
		for _, key := range slices.Sorted(maps.Keys(current)) {
			if _, ok := desired[key]; !ok {
				plan.Deletes = append(plan.Deletes, key)
			}
		}
	}
	return plan
}

// Target is a redirect store that can be listed and written.
type Target interface {
	List(ctx context.Context) (map[string]string, error)
	Apply(ctx context.Context, plan Plan) error
}

var (
	_ Target = (*Client)(nil)
	_ Target = (*Table)(nil)
)

// Sync makes t hold desired, deleting other keys when prune is set. With
// dryRun the plan is computed but not applied.
func Sync(ctx context.Context, t Target, desired map[string]string, prune, dryRun bool) (Plan, error) {
	current, err := t.List(ctx)
	if err != nil {
		return Plan{}, err
	}
	plan := Diff(current, desired, prune)
	if dryRun {
		return plan, nil
	}
	return plan, t.Apply(ctx, plan)
}

// Client manages one KeyValueStore.
type Client struct {
	api    API
	kvsARN string
}

// New binds a Client to the KeyValueStore with the given ARN.
func New(api API, kvsARN string) (*Client, error) {
	if err := redirectkvs.ValidateARN(kvsARN); err != nil {
		return nil, err
	}
	return &Client{api: api, kvsARN: kvsARN}, nil
}

// ETag returns the current version of the store.
func (c *Client) ETag(ctx context.Context) (string, error) {
	out, err := c.api.DescribeKeyValueStore(ctx, &cloudfrontkeyvaluestore.DescribeKeyValueStoreInput{
		KvsARN: aws.String(c.kvsARN),
	})
	if err != nil {
		return "", errors.Wrap(err, "describe key value store")
	}
	return aws.ToString(out.ETag), nil
}

// List returns every entry in the store.
func (c *Client) List(ctx context.Context) (map[string]string, error) {
	entries := map[string]string{}
	var next *string
	for {
		out, err := c.api.ListKeys(ctx, &cloudfrontkeyvaluestore.ListKeysInput{
			KvsARN:    aws.String(c.kvsARN),
			NextToken: next,
		})
		if err != nil {
			return nil, errors.Wrap(err, "list keys")
		}
		for _, item := range out.Items {
			entries[aws.ToString(item.Key)] = aws.ToString(item.Value)
		}
		if aws.ToString(out.NextToken) == "" {
			return entries, nil
		}
		next = out.NextToken
	}
}

// Apply writes plan to the store. Every write is conditional on the ETag
// returned by the previous one, starting from the current ETag, so a
// concurrent change fails the sync instead of being overwritten.
func (c *Client) Apply(ctx context.Context, plan Plan) error {
	if plan.Empty() {
		return nil
	}
	etag, err := c.ETag(ctx)
	if err != nil {
		return err
	}

	for _, entry := range plan.Puts {
		out, err := c.api.PutKey(ctx, &cloudfrontkeyvaluestore.PutKeyInput{
			KvsARN:  aws.String(c.kvsARN),
			Key:     aws.String(entry.Key),
			Value:   aws.String(entry.Value),
			IfMatch: aws.String(etag),
		})
		if err != nil {
			return errors.Wrapf(err, "put key %q", entry.Key)
		}
		etag = aws.ToString(out.ETag)
	}
	for _, key := range plan.Deletes {
		out, err := c.api.DeleteKey(ctx, &cloudfrontkeyvaluestore.DeleteKeyInput{
			KvsARN:  aws.String(c.kvsARN),
			Key:     aws.String(key),
			IfMatch: aws.String(etag),
		})
		if err != nil {
			return errors.Wrapf(err, "delete key %q", key)
		}
		etag = aws.ToString(out.ETag)
	}
	return nil
}

// Sync makes the store hold desired, deleting other keys when prune is set.
func (c *Client) Sync(ctx context.Context, desired map[string]string, prune, dryRun bool) (Plan, error) {
	return Sync(ctx, c, desired, prune, dryRun)
}
