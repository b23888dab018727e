package storage

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Skryldev/imgfit/config"
	imgerr "github.com/Skryldev/imgfit/errors"
)

// S3 is the Adapter backed by any S3-compatible object store via
// github.com/minio/minio-go/v7 (works against AWS S3, MinIO, and
// compatible endpoints alike).
type S3 struct {
	client *minio.Client
	bucket string
}

// NewS3 dials endpoint and returns an adapter defaulting to cfg.Bucket when
// a Key's Bucket field is empty.
func NewS3(cfg config.S3Config) (*S3, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, imgerr.Wrap(imgerr.CodeOutputFailed, "storage.s3.dial", err)
	}
	return &S3{client: client, bucket: cfg.Bucket}, nil
}

func (s *S3) bucketFor(key Key) string {
	if key.Bucket != "" {
		return key.Bucket
	}
	return s.bucket
}

func (s *S3) Put(ctx context.Context, key Key, r io.Reader, meta map[string]string) error {
	_, err := s.client.PutObject(ctx, s.bucketFor(key), key.Path, r, -1, minio.PutObjectOptions{
		UserMetadata: meta,
	})
	if err != nil {
		return imgerr.Transient("storage.s3.put", err)
	}
	return nil
}

func (s *S3) Get(ctx context.Context, key Key) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucketFor(key), key.Path, minio.GetObjectOptions{})
	if err != nil {
		return nil, imgerr.Transient("storage.s3.get", err)
	}
	return obj, nil
}

func (s *S3) Delete(ctx context.Context, key Key) error {
	if err := s.client.RemoveObject(ctx, s.bucketFor(key), key.Path, minio.RemoveObjectOptions{}); err != nil {
		return imgerr.Wrap(imgerr.CodeOutputFailed, "storage.s3.delete", err)
	}
	return nil
}

func (s *S3) Exists(ctx context.Context, key Key) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucketFor(key), key.Path, minio.StatObjectOptions{})
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
			return false, nil
		}
		return false, imgerr.Wrap(imgerr.CodeOutputFailed, "storage.s3.exists", err)
	}
	return true, nil
}
