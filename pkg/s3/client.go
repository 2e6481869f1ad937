package s3

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/bornholm/dbmenu/pkg/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

type Options struct {
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint"`
	AccessKey string `mapstructure:"accessKey" yaml:"accessKey"`
	SecretKey string `mapstructure:"secretKey" yaml:"secretKey"`
	Token     string `mapstructure:"token" yaml:"token"`
	Region    string `mapstructure:"region" yaml:"region"`
	Bucket    string `mapstructure:"bucket" yaml:"bucket"`
	Secure    bool   `mapstructure:"secure" yaml:"secure"`
	// CreateBucket creates the bucket when it does not exist
	CreateBucket bool `mapstructure:"createBucket" yaml:"createBucket"`
}

func NewClient(ctx context.Context, opts Options) (*minio.Client, error) {
	if opts.Endpoint == "" {
		return nil, errors.New("missing s3 endpoint")
	}

	if opts.Bucket == "" {
		return nil, errors.New("missing s3 bucket")
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, opts.Token),
		Secure: opts.Secure,
		Region: opts.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create s3 client")
	}

	slog.DebugContext(ctx, "s3 client created", log.ScrubbedURL("endpoint", endpointURL(opts)), slog.String("bucket", opts.Bucket))

	if !opts.CreateBucket {
		return client, nil
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, errors.Wrapf(err, "could not check bucket '%s'", opts.Bucket)
	}

	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{Region: opts.Region}); err != nil {
			return nil, errors.Wrapf(err, "could not create bucket '%s'", opts.Bucket)
		}
	}

	return client, nil
}

func endpointURL(opts Options) string {
	u := url.URL{Scheme: "http", Host: opts.Endpoint}
	if opts.Secure {
		u.Scheme = "https"
	}

	if opts.AccessKey != "" {
		u.User = url.UserPassword(opts.AccessKey, opts.SecretKey)
	}

	return u.String()
}

// IsNotFound reports whether err is a missing key or bucket response
func IsNotFound(err error) bool {
	var resp minio.ErrorResponse
	if !errors.As(err, &resp) {
		return false
	}

	return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" || resp.StatusCode == 404
}
