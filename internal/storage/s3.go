// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage wraps an S3-compatible object store behind the small
// surface the media library needs: upload, delete, public URLs and
// presigned private URLs. Path-style addressing is forced because the
// target deployments (CEPH, Hetzner, MinIO) do not do virtual-host
// buckets.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Config carries the object-store settings, normally sourced from the
// environment.
type Config struct {
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	PublicBucket  string
	PrivateBucket string
	// PublicURL, when set, replaces the endpoint in public file URLs
	// (CDN or direct bucket domain).
	PublicURL string
}

// Client performs media operations against a public and a private bucket.
type Client struct {
	api       *s3.Client
	presigner *s3.PresignClient
	cfg       Config
}

// New builds a storage client. When the endpoint or credentials are
// empty it returns (nil, nil) so the app can run without object storage;
// callers treat a nil *Client as "uploads disabled".
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, nil
	}

	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")

	api := s3.New(s3.Options{
		Region:       cfg.Region,
		BaseEndpoint: aws.String(cfg.Endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		api:       api,
		presigner: s3.NewPresignClient(api),
		cfg:       cfg,
	}, nil
}

// Upload stores an object. Objects landing in the public bucket get a
// public-read ACL so the bucket can serve them directly.
func (c *Client) Upload(ctx context.Context, bucket, key, contentType string, body io.Reader, size int64) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	}
	if bucket == c.cfg.PublicBucket {
		input.ACL = s3types.ObjectCannedACLPublicRead
	}

	if _, err := c.api.PutObject(ctx, input); err != nil {
		return fmt.Errorf("s3 upload %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Delete removes an object. Deleting a missing key is not an error on
// S3, which suits the cleanup paths that call this best-effort.
func (c *Client) Delete(ctx context.Context, bucket, key string) error {
	_, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", bucket, key, err)
	}
	return nil
}

// FileURL returns the browser-facing URL for a public-bucket object.
func (c *Client) FileURL(key string) string {
	if c.cfg.PublicURL != "" {
		return c.cfg.PublicURL + "/" + key
	}
	return c.cfg.Endpoint + "/" + c.cfg.PublicBucket + "/" + key
}

// PresignedURL returns a time-limited GET URL for a private object.
func (c *Client) PresignedURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	req, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("s3 presign %s/%s: %w", bucket, key, err)
	}
	return req.URL, nil
}

// PublicBucket returns the public bucket name.
func (c *Client) PublicBucket() string { return c.cfg.PublicBucket }
