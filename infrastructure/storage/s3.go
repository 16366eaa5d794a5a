package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/pkg/errors"

	"github.com/cheerioo/api/domain/apperrors"
	"github.com/cheerioo/api/infrastructure/config"
)

// S3Driver stores blobs in an S3-compatible bucket. A custom Endpoint lets
// it target MinIO or R2 as well as AWS proper.
type S3Driver struct {
	client *s3.S3
	bucket string
	// publicBase is the prefix public object URLs are built from.
	publicBase string
}

func NewS3Driver(cfg config.S3Config) (*S3Driver, error) {
	awsCfg := aws.NewConfig().WithRegion(cfg.Region)
	if cfg.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.Endpoint).WithS3ForcePathStyle(true)
	}
	if cfg.AccessKeyID != "" {
		awsCfg = awsCfg.WithCredentials(
			credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, ""))
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, errors.Wrap(err, "create aws session")
	}

	publicBase := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	if cfg.Endpoint != "" {
		publicBase = fmt.Sprintf("%s/%s", cfg.Endpoint, cfg.Bucket)
	}

	return &S3Driver{
		client:     s3.New(sess),
		bucket:     cfg.Bucket,
		publicBase: publicBase,
	}, nil
}

func (d *S3Driver) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return errors.Wrap(err, "read upload body")
	}

	_, err = d.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(d.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	return errors.Wrap(err, "put s3 object")
}

func (d *S3Driver) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := d.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindNotFound, "attachment_not_found", "stored object does not exist", err)
	}
	return out.Body, nil
}

func (d *S3Driver) Delete(ctx context.Context, key string) error {
	_, err := d.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	return errors.Wrap(err, "delete s3 object")
}

func (d *S3Driver) URL(key string) string {
	return fmt.Sprintf("%s/%s", d.publicBase, key)
}
