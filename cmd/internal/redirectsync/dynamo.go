package redirectsync

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cockroachdb/errors"
	"github.com/dev0psfyi/website/redirect/redirectdynamo"
)

// DynamoAPI is the subset of the DynamoDB client used for syncing.
type DynamoAPI interface {
	redirectdynamo.API
	Scan(ctx context.Context, params *dynamodb.ScanInput,
		optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput,
		optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput,
		optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// Table manages the redirect items of one DynamoDB table. Items with another
// sort key are left alone.
type Table struct {
	api   DynamoAPI
	table string
}

// NewTable binds a Table to the named table.
func NewTable(api DynamoAPI, table string) (*Table, error) {
	if table == "" {
		return nil, errors.New("redirectsync: empty table name")
	}
	return &Table{api: api, table: table}, nil
}

// List returns every redirect item in the table.
func (t *Table) List(ctx context.Context) (map[string]string, error) {
	entries := map[string]string{}
	var start map[string]types.AttributeValue
	for {
		out, err := t.api.Scan(ctx, &dynamodb.ScanInput{
			TableName:            aws.String(t.table),
			FilterExpression:     aws.String("#sk = :sk"),
			ProjectionExpression: aws.String("#pk, #target"),
			ExpressionAttributeNames: map[string]string{
				"#pk":     "pk",
				"#sk":     "sk",
				"#target": redirectdynamo.TargetAttribute,
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":sk": &types.AttributeValueMemberS{Value: redirectdynamo.SortKey},
			},
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, errors.Wrap(err, "scan table")
		}
		for _, item := range out.Items {
			pk, ok := item["pk"].(*types.AttributeValueMemberS)
			if !ok {
				return nil, errors.Newf("item without string pk in %s", t.table)
			}
			target, ok := item[redirectdynamo.TargetAttribute].(*types.AttributeValueMemberS)
			if !ok {
				return nil, errors.Newf("item %q: attribute %s is not a string", pk.Value, redirectdynamo.TargetAttribute)
			}
			entries[pk.Value] = target.Value
		}
		if len(out.LastEvaluatedKey) == 0 {
			return entries, nil
		}
		start = out.LastEvaluatedKey
	}
}

// Apply writes plan to the table, stopping at the first failed write.
func (t *Table) Apply(ctx context.Context, plan Plan) error {
	for _, entry := range plan.Puts {
		item := redirectdynamo.Key(entry.Key)
		item[redirectdynamo.TargetAttribute] = &types.AttributeValueMemberS{Value: entry.Value}
		if _, err := t.api.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(t.table),
			Item:      item,
		}); err != nil {
			return errors.Wrapf(err, "put item %q", entry.Key)
		}
	}
	for _, key := range plan.Deletes {
		if _, err := t.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(t.table),
			Key:       redirectdynamo.Key(key),
		}); err != nil {
			return errors.Wrapf(err, "delete item %q", key)
		}
	}
	return nil
}
