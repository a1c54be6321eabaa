/* Copyright (c) 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/gregjones/httpcache/test"

	"github.com/mikeb26/swisspair/internal"
)

// fakeS3 is an in-memory bucket implementing API.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeS3Store(gzip bool) *S3Store {
	s := NewS3Store("test-bucket", gzip)
	s.Client = &fakeS3{objects: make(map[string][]byte)}
	return s
}

func noSuchKey() error {
	return &smithy.GenericAPIError{Code: "NoSuchKey", Message: "not found"}
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput,
	_ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {

	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, noSuchKey()
	}
	return &s3.GetObjectOutput{
		Body: io.NopCloser(bytes.NewReader(append([]byte(nil), data...))),
	}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput,
	_ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {

	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput,
	_ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {

	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput,
	_ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &smithy.GenericAPIError{Code: "NotFound"}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) HeadBucket(_ context.Context, _ *s3.HeadBucketInput,
	_ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {

	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input,
	_ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {

	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, k := range keys {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func TestBlobCacheFake(t *testing.T) {
	for _, gzip := range []bool{false, true} {
		t.Run(fmt.Sprintf("gzip=%v", gzip), func(t *testing.T) {
			s := newFakeS3Store(gzip)
			test.Cache(t, s.Cache(context.Background(), internal.WebCachePrefix))
		})
	}
}

func TestS3StoreGzipObjectsAreCompressed(t *testing.T) {
	s := newFakeS3Store(true)
	cache := s.Cache(context.Background(), internal.WebCachePrefix)
	payload := bytes.Repeat([]byte("swiss "), 100)
	cache.Set("k", payload)

	raw := s.Client.(*fakeS3).objects[cache.cacheKeyToObjectKey("k")+".gz"]
	if len(raw) == 0 || len(raw) >= len(payload) {
		t.Errorf("stored object is %d bytes; want a compressed object", len(raw))
	}
}

func TestS3Store(t *testing.T) {
	s := NewS3Store(internal.DefaultBucket, false)
	err := s.Init(context.Background())
	if err != nil {
		t.Skip(fmt.Sprintf("Skipping test due to lack of access to %v: %v",
			internal.DefaultBucket, err))
	}

	test.Cache(t, s.Cache(context.Background(), internal.WebCachePrefix))
}
