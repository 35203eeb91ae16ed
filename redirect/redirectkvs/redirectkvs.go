// Package redirectkvs implements a redirect.Store on top of a CloudFront
// KeyValueStore.
package redirectkvs

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/arn"
	"github.com/aws/aws-sdk-go-v2/service/cloudfrontkeyvaluestore"
	"github.com/aws/aws-sdk-go-v2/service/cloudfrontkeyvaluestore/types"
	"github.com/cockroachdb/errors"
	"github.com/dev0psfyi/website/redirect"
)

// API is the subset of the KeyValueStore data plane client used for lookups.
type API interface {
	GetKey(
		ctx context.Context,
		params *cloudfrontkeyvaluestore.GetKeyInput,
		optFns ...func(*cloudfrontkeyvaluestore.Options),
	) (*cloudfrontkeyvaluestore.GetKeyOutput, error)
}

// Store reads redirect targets from one KeyValueStore.
type Store struct {
	api    API
	kvsARN string
}

var _ redirect.Store = (*Store)(nil)

// Open binds a Store to the KeyValueStore with the given ARN. It fails when
// the ARN does not identify a CloudFront KeyValueStore.
func Open(api API, kvsARN string) (*Store, error) {
	if api == nil {
		return nil, errors.New("redirectkvs: nil client")
	}
	if err := ValidateARN(kvsARN); err != nil {
		return nil, err
	}
	return &Store{api: api, kvsARN: kvsARN}, nil
}

// ValidateARN checks that kvsARN names a CloudFront KeyValueStore.
func ValidateARN(kvsARN string) error {
	if kvsARN == "" {
		return errors.New("redirectkvs: empty key value store ARN")
	}
	parsed, err := arn.Parse(kvsARN)
	if err != nil {
		return errors.Wrapf(err, "redirectkvs: invalid key value store ARN %q", kvsARN)
	}
	if parsed.Service != "cloudfront" || !strings.HasPrefix(parsed.Resource, "key-value-store/") {
		return errors.Newf("redirectkvs: %q is not a CloudFront key value store", kvsARN)
	}
	return nil
}

// ARN returns the KeyValueStore ARN the store is bound to.
func (s *Store) ARN() string {
	return s.kvsARN
}

// Get returns the target for key, or redirect.ErrKeyNotFound.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", redirect.ErrKeyNotFound
	}

	out, err := s.api.GetKey(ctx, &cloudfrontkeyvaluestore.GetKeyInput{
		KvsARN: aws.String(s.kvsARN),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return "", redirect.ErrKeyNotFound
		}
		return "", errors.Wrapf(err, "get key %q", key)
	}
	return aws.ToString(out.Value), nil
}
