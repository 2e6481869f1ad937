package s3

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/bornholm/dbmenu/internal/navigation"
	"github.com/bornholm/dbmenu/internal/navigation/cache"
	s3client "github.com/bornholm/dbmenu/pkg/s3"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

const extension = ".yml"

// Cache stores each slot as an object of a bucket
type Cache struct {
	client *minio.Client
	bucket string
	prefix string
}

// Get implements navigation.Cache.
func (c *Cache) Get(ctx context.Context, slot string) ([]*navigation.Node, bool, error) {
	if err := cache.ValidateSlot(slot); err != nil {
		return nil, false, errors.WithStack(err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	obj, err := c.client.GetObject(ctx, c.bucket, c.key(slot), minio.GetObjectOptions{})
	if err != nil {
		if s3client.IsNotFound(err) {
			return nil, false, nil
		}

		return nil, false, errors.WithStack(err)
	}

	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if s3client.IsNotFound(err) {
			return nil, false, nil
		}

		return nil, false, errors.WithStack(err)
	}

	tree, err := cache.Decode(data)
	if err != nil {
		return nil, false, errors.Wrapf(err, "could not decode slot '%s'", slot)
	}

	return tree, true, nil
}

// Put implements navigation.Cache.
func (c *Cache) Put(ctx context.Context, slot string, tree []*navigation.Node) error {
	if err := cache.ValidateSlot(slot); err != nil {
		return errors.WithStack(err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	key := c.key(slot)

	if _, err := c.client.StatObject(ctx, c.bucket, key, minio.StatObjectOptions{}); err == nil {
		return nil
	} else if !s3client.IsNotFound(err) {
		return errors.WithStack(err)
	}

	data, err := cache.Encode(slot, tree)
	if err != nil {
		return errors.WithStack(err)
	}

	_, err = c.client.PutObject(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/yaml",
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// Purge implements navigation.Cache.
func (c *Cache) Purge(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	objects := c.client.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{
		Prefix:    c.prefix,
		Recursive: false,
	})

	for obj := range objects {
		if obj.Err != nil {
			return errors.WithStack(obj.Err)
		}

		if !strings.HasSuffix(obj.Key, extension) {
			continue
		}

		if err := c.client.RemoveObject(ctx, c.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return errors.WithStack(err)
		}
	}

	return nil
}

func (c *Cache) key(slot string) string {
	return c.prefix + slot + extension
}

func NewCache(client *minio.Client, bucket string, prefix string) *Cache {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}

	return &Cache{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

var _ navigation.Cache = &Cache{}
