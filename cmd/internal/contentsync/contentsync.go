// Package contentsync uploads the built site to the content bucket.
package contentsync

import (
	"bytes"
	"context"
	"io/fs"
	"mime"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cockroachdb/errors"
)

// Cache-Control values. HTML is revalidated on every request, other assets
// are cached for a day.
const (
	CacheControlHTML   = "no-cache"
	CacheControlAssets = "public, max-age=86400"
)

const defaultContentType = "application/octet-stream"

// ObjectPutter is the subset of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Object is one uploaded file.
type Object struct {
	Key          string
	ContentType  string
	CacheControl string
	Size         int
}

// Upload puts every regular file of content into bucket under prefix, in
// lexical order. Hidden files and directories are skipped.
func Upload(ctx context.Context, api ObjectPutter, content fs.FS, bucket, prefix string) ([]Object, error) {
	var uploaded []Object
	err := fs.WalkDir(content, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if name != "." && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		data, err := fs.ReadFile(content, name)
		if err != nil {
			return errors.Wrapf(err, "read %s", name)
		}
		obj := Object{
			Key:          ObjectKey(prefix, name),
			ContentType:  ContentType(name),
			CacheControl: CacheControl(name),
			Size:         len(data),
		}
		if _, err := api.PutObject(ctx, &s3.PutObjectInput{
			Bucket:       aws.String(bucket),
			Key:          aws.String(obj.Key),
			Body:         bytes.NewReader(data),
			ContentType:  aws.String(obj.ContentType),
			CacheControl: aws.String(obj.CacheControl),
		}); err != nil {
			return errors.Wrapf(err, "put s3://%s/%s", bucket, obj.Key)
		}
		uploaded = append(uploaded, obj)
		return nil
	})
	if err != nil {
		return uploaded, err
	}
	return uploaded, nil
}

// ObjectKey joins prefix and the slash separated file name.
func ObjectKey(prefix, name string) string {
	return path.Join(strings.Trim(prefix, "/"), name)
}

// ContentType returns the MIME type for name's extension.
func ContentType(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return defaultContentType
}

// CacheControl returns the Cache-Control header for name.
func CacheControl(name string) string {
	if path.Ext(name) == ".html" {
		return CacheControlHTML
	}
	return CacheControlAssets
}
