// Package s3store implements records.Store over S3-compatible object storage
// (AWS S3, MinIO). Each record is one object at "<collection>/<id>.json".
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/dmitrijs2005/pulsecheck/internal/common"
)

// ObjectAPI is the part of *s3.Client used by the store.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Options configure the connection.
type Options struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) ObjectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// Store is an object-storage backed records.Store.
type Store struct {
	client ObjectAPI
	bucket string
}

// New wraps an existing client.
func New(client ObjectAPI, bucket string) *Store {
	return &Store{client: client, bucket: bucket}
}

// Open builds an S3 client from static credentials. Path-style addressing is
// used so MinIO endpoints work.
func Open(ctx context.Context, o Options) (*Store, error) {
	if o.Bucket == "" {
		return nil, errors.New("bucket is required")
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(o.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			o.AccessKey,
			o.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(opts *s3.Options) {
		if o.BaseEndpoint != "" {
			opts.BaseEndpoint = aws.String(o.BaseEndpoint)
		}
		opts.UsePathStyle = true
	})

	return New(client, o.Bucket), nil
}

func objectKey(collection, id string) string {
	return collection + "/" + id + ".json"
}

// Create writes the object only if the key is free (If-None-Match: *).
func (s *Store) Create(ctx context.Context, collection, id string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey(collection, id)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		IfNoneMatch: aws.String("*"),
	})
	if err != nil {
		if apiErrorCode(err) == "PreconditionFailed" {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("s3 put %s: %w", objectKey(collection, id), err)
	}
	return nil
}

func (s *Store) Read(ctx context.Context, collection, id string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(collection, id)),
	})
	if err != nil {
		return nil, s.mapErr("get", collection, id, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read body %s: %w", objectKey(collection, id), err)
	}
	return data, nil
}

func (s *Store) Update(ctx context.Context, collection, id string, data []byte) error {
	if err := s.exists(ctx, collection, id); err != nil {
		return err
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey(collection, id)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s: %w", objectKey(collection, id), err)
	}
	return nil
}

// Delete removes the object. S3 deletes are idempotent, so existence is
// checked first to report not-found.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if err := s.exists(ctx, collection, id); err != nil {
		return err
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(collection, id)),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", objectKey(collection, id), err)
	}
	return nil
}

func (s *Store) Close() error { return nil }

func (s *Store) exists(ctx context.Context, collection, id string) error {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(collection, id)),
	})
	if err != nil {
		return s.mapErr("head", collection, id, err)
	}
	return nil
}

func (s *Store) mapErr(op, collection, id string, err error) error {
	switch apiErrorCode(err) {
	case "NoSuchKey", "NotFound":
		return common.ErrorNotFound
	}
	return fmt.Errorf("s3 %s %s: %w", op, objectKey(collection, id), err)
}

func apiErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
