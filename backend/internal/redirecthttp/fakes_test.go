package redirecthttp_test

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudfrontkeyvaluestore"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

type fakeKVS struct{}

func (fakeKVS) GetKey(
	context.Context, *cloudfrontkeyvaluestore.GetKeyInput, ...func(*cloudfrontkeyvaluestore.Options),
) (*cloudfrontkeyvaluestore.GetKeyOutput, error) {
	return &cloudfrontkeyvaluestore.GetKeyOutput{}, nil
}

type fakeDynamo struct{}

func (fakeDynamo) GetItem(
	context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options),
) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{}, nil
}
