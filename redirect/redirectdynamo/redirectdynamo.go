// Package redirectdynamo implements a redirect.Store on top of a DynamoDB
// table that uses the pk/sk single-table layout.
//
// Every redirect is one item:
//
//	pk     = <request path>
//	sk     = "redirect"
//	target = <redirect target>
package redirectdynamo

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cockroachdb/errors"
	"github.com/dev0psfyi/website/redirect"
)

const (
	// SortKey is the sort key value shared by all redirect items.
	SortKey = "redirect"
	// TargetAttribute holds the redirect target.
	TargetAttribute = "target"
)

// API is the subset of the DynamoDB client used for lookups.
type API interface {
	GetItem(
		ctx context.Context,
		params *dynamodb.GetItemInput,
		optFns ...func(*dynamodb.Options),
	) (*dynamodb.GetItemOutput, error)
}

// Store reads redirect targets from a DynamoDB table.
type Store struct {
	api   API
	table string
}

var _ redirect.Store = (*Store)(nil)

// Open binds a Store to the named table.
func Open(api API, table string) (*Store, error) {
	if api == nil {
		return nil, errors.New("redirectdynamo: nil client")
	}
	if table == "" {
		return nil, errors.New("redirectdynamo: empty table name")
	}
	return &Store{api: api, table: table}, nil
}

// Key returns the primary key of the item for path.
func Key(path string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: path},
		"sk": &types.AttributeValueMemberS{Value: SortKey},
	}
}

// Get returns the target for key, or redirect.ErrKeyNotFound.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", redirect.ErrKeyNotFound
	}

	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(s.table),
		Key:                  Key(key),
		ProjectionExpression: aws.String(TargetAttribute),
	})
	if err != nil {
		return "", errors.Wrapf(err, "get item %q", key)
	}
	if out.Item == nil {
		return "", redirect.ErrKeyNotFound
	}

	switch v := out.Item[TargetAttribute].(type) {
	case *types.AttributeValueMemberS:
		return v.Value, nil
	case nil:
		return "", redirect.ErrKeyNotFound
	default:
		return "", errors.Newf("item %q: attribute %s is %T, want string", key, TargetAttribute, v)
	}
}
