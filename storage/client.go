// Package storage forwards uploaded files to an object-storage bucket
// and hands back public URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
)

// Buckets the application writes to.
const (
	BucketProfiles    = "profiles"
	BucketAttachments = "attachments"
	BucketResumes     = "resumes"
)

// ErrUnknownBucket signals an upload aimed at a bucket outside the
// fixed set.
var ErrUnknownBucket = fmt.Errorf("storage: unknown bucket")

// minioAPI is the slice of *minio.Client the package uses; an interface
// so tests can run without a real server.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type minioClientWrapper struct{ c *minio.Client }

func (w minioClientWrapper) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return w.c.BucketExists(ctx, bucketName)
}
func (w minioClientWrapper) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return w.c.MakeBucket(ctx, bucketName, opts)
}
func (w minioClientWrapper) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return w.c.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}
func (w minioClientWrapper) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return w.c.RemoveObject(ctx, bucketName, objectName, opts)
}

// Client uploads files into the fixed bucket set.
type Client struct {
	api           minioAPI
	publicBaseURL string
	randSuffix    func() string
	now           func() time.Time
}

// UploadParams describes one file upload.
type UploadParams struct {
	Bucket      string
	Path        string
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// NewClient wraps a real *minio.Client and ensures the application
// buckets exist.
func NewClient(ctx context.Context, client *minio.Client, publicBaseURL string) (*Client, error) {
	return newClientWithAPI(ctx, minioClientWrapper{c: client}, publicBaseURL)
}

func newClientWithAPI(ctx context.Context, api minioAPI, publicBaseURL string) (*Client, error) {
	c := &Client{
		api:           api,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		randSuffix:    randomSuffix,
		now:           time.Now,
	}

	for _, bucket := range []string{BucketProfiles, BucketAttachments, BucketResumes} {
		if err := c.ensureBucket(ctx, bucket); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Client) ensureBucket(ctx context.Context, bucket string) error {
	exists, err := c.api.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("storage: check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := c.api.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("storage: create bucket %s: %w", bucket, err)
	}
	return nil
}

// Upload stores the file under a generated object name
// (path/unixms-rand.ext) and returns its public URL. Object names never
// collide with prior uploads, so files are effectively immutable.
func (c *Client) Upload(ctx context.Context, params UploadParams) (string, error) {
	if !validBucket(params.Bucket) {
		return "", ErrUnknownBucket
	}

	ext := strings.TrimPrefix(path.Ext(params.FileName), ".")
	objectName := fmt.Sprintf("%s/%d-%s", params.Path, c.now().UnixMilli(), c.randSuffix())
	if ext != "" {
		objectName += "." + ext
	}

	_, err := c.api.PutObject(ctx, params.Bucket, objectName, params.Body, params.Size, minio.PutObjectOptions{
		ContentType:  params.ContentType,
		CacheControl: "max-age=3600",
	})
	if err != nil {
		return "", fmt.Errorf("storage: upload %s/%s: %w", params.Bucket, objectName, err)
	}

	return c.PublicURL(params.Bucket, objectName), nil
}

// Delete removes one object.
func (c *Client) Delete(ctx context.Context, bucket, objectName string) error {
	if !validBucket(bucket) {
		return ErrUnknownBucket
	}
	if err := c.api.RemoveObject(ctx, bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("storage: delete %s/%s: %w", bucket, objectName, err)
	}
	return nil
}

// PublicURL builds the externally reachable URL for an object.
func (c *Client) PublicURL(bucket, objectName string) string {
	return fmt.Sprintf("%s/%s/%s", c.publicBaseURL, bucket, objectName)
}

func validBucket(bucket string) bool {
	switch bucket {
	case BucketProfiles, BucketAttachments, BucketResumes:
		return true
	default:
		return false
	}
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomSuffix() string {
	b := make([]byte, 7)
	for i := range b {
		b[i] = suffixAlphabet[rand.Intn(len(suffixAlphabet))]
	}
	return string(b)
}
