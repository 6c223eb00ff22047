package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMinio struct {
	buckets map[string]bool
	puts    []putCall
	removed []string
	putErr  error
}

type putCall struct {
	bucket      string
	objectName  string
	contentType string
	size        int64
	body        []byte
}

func newFakeMinio() *fakeMinio {
	return &fakeMinio{buckets: make(map[string]bool)}
}

func (f *fakeMinio) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return f.buckets[bucketName], nil
}

func (f *fakeMinio) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	f.buckets[bucketName] = true
	return nil
}

func (f *fakeMinio) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.puts = append(f.puts, putCall{
		bucket:      bucketName,
		objectName:  objectName,
		contentType: opts.ContentType,
		size:        objectSize,
		body:        body,
	})
	return minio.UploadInfo{Bucket: bucketName, Key: objectName, Size: objectSize}, nil
}

func (f *fakeMinio) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	f.removed = append(f.removed, bucketName+"/"+objectName)
	return nil
}

func newTestClient(t *testing.T, api minioAPI) *Client {
	t.Helper()
	c, err := newClientWithAPI(context.Background(), api, "http://cdn.example.com/")
	require.NoError(t, err)
	return c
}

func TestNewClient_EnsuresBuckets(t *testing.T) {
	api := newFakeMinio()
	api.buckets[BucketProfiles] = true

	newTestClient(t, api)

	assert.True(t, api.buckets[BucketProfiles])
	assert.True(t, api.buckets[BucketAttachments])
	assert.True(t, api.buckets[BucketResumes])
}

func TestClient_Upload(t *testing.T) {
	api := newFakeMinio()
	c := newTestClient(t, api)
	c.now = func() time.Time { return time.UnixMilli(1700000000000) }
	c.randSuffix = func() string { return "abc1234" }

	url, err := c.Upload(context.Background(), UploadParams{
		Bucket:      BucketProfiles,
		Path:        "user-1",
		FileName:    "portrait.PNG",
		ContentType: "image/png",
		Size:        4,
		Body:        bytes.NewReader([]byte("data")),
	})
	require.NoError(t, err)
	assert.Equal(t, "http://cdn.example.com/profiles/user-1/1700000000000-abc1234.PNG", url)

	require.Len(t, api.puts, 1)
	put := api.puts[0]
	assert.Equal(t, BucketProfiles, put.bucket)
	assert.Equal(t, "user-1/1700000000000-abc1234.PNG", put.objectName)
	assert.Equal(t, "image/png", put.contentType)
	assert.Equal(t, int64(4), put.size)
	assert.Equal(t, []byte("data"), put.body)
}

func TestClient_UploadNoExtension(t *testing.T) {
	api := newFakeMinio()
	c := newTestClient(t, api)
	c.now = func() time.Time { return time.UnixMilli(1700000000000) }
	c.randSuffix = func() string { return "abc1234" }

	url, err := c.Upload(context.Background(), UploadParams{
		Bucket:   BucketAttachments,
		Path:     "user-1",
		FileName: "README",
		Body:     bytes.NewReader(nil),
	})
	require.NoError(t, err)
	assert.Equal(t, "http://cdn.example.com/attachments/user-1/1700000000000-abc1234", url)
}

func TestClient_UploadUnknownBucket(t *testing.T) {
	c := newTestClient(t, newFakeMinio())

	_, err := c.Upload(context.Background(), UploadParams{
		Bucket:   "somewhere-else",
		Path:     "user-1",
		FileName: "file.txt",
		Body:     bytes.NewReader(nil),
	})
	assert.ErrorIs(t, err, ErrUnknownBucket)
}

func TestClient_UploadWrapsBackendError(t *testing.T) {
	api := newFakeMinio()
	api.putErr = errors.New("connection refused")
	c := newTestClient(t, api)

	_, err := c.Upload(context.Background(), UploadParams{
		Bucket:   BucketResumes,
		Path:     "user-1",
		FileName: "resume.pdf",
		Body:     bytes.NewReader(nil),
	})
	assert.ErrorContains(t, err, "connection refused")
}

func TestClient_Delete(t *testing.T) {
	api := newFakeMinio()
	c := newTestClient(t, api)

	require.NoError(t, c.Delete(context.Background(), BucketProfiles, "user-1/obj.png"))
	assert.Equal(t, []string{"profiles/user-1/obj.png"}, api.removed)

	assert.ErrorIs(t, c.Delete(context.Background(), "nope", "x"), ErrUnknownBucket)
}

func TestRandomSuffix(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		s := randomSuffix()
		require.Len(t, s, 7)
		seen[s] = true
	}
	assert.Greater(t, len(seen), 1, "suffixes should vary")
}
