/* Copyright (c) 2013 The s3cache AUTHORS. All rights reserved.
 * Copyright (c) 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/sirupsen/logrus"
)

const tournamentPrefix = "tournaments/"

// API is the subset of *s3.Client the store needs.
type API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput,
		optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput,
		optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput,
		optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput,
		optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput,
		optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input,
		optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Store keeps tournaments as JSON objects in an S3 bucket, optionally
// gzipped, and can also serve as an httpcache.Cache via Cache.
type S3Store struct {
	// Config is the AWS configuration loaded by Init.
	Config aws.Config

	// Client is initialized in Init() from Config, but callers can
	// optionally set their own before use and skip Init.
	Client API

	// Log receives best-effort cache failures. Defaults to the logrus
	// standard logger.
	Log logrus.FieldLogger

	bucketName string
	gzip       bool

	// serializes read-modify-write sequences from this process
	mu sync.Mutex
}

// NewS3Store returns a store over bucketName. Callers should invoke Init()
// on the returned store before use unless they supply Client themselves.
func NewS3Store(bucketName string, gzip bool) *S3Store {
	return &S3Store{
		bucketName: bucketName,
		gzip:       gzip,
		Log:        logrus.StandardLogger(),
	}
}

// Init loads the default AWS configuration sources (environment, shared
// config and credentials files) and verifies the bucket can be read and
// listed.
func (s *S3Store) Init(ctx context.Context) error {
	var err error
	s.Config, err = config.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("store.init: failed to load AWS config: %w", err)
	}
	s.Client = s3.NewFromConfig(s.Config)

	if _, err = s.Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucketName),
	}); err != nil {
		return fmt.Errorf("store.init: head bucket failed for %s: %w",
			s.bucketName, err)
	}

	if _, err = s.Client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucketName),
		MaxKeys: aws.Int32(1),
	}); err != nil {
		return fmt.Errorf("store.init: list objects failed for %s: %w",
			s.bucketName, err)
	}

	return nil
}

func (s *S3Store) Bucket() string {
	return s.bucketName
}

func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	code := apiErr.ErrorCode()
	return code == "NoSuchKey" || code == "NotFound"
}

func (s *S3Store) objectKey(key string) string {
	if s.gzip {
		return key + ".gz"
	}
	return key
}

func (s *S3Store) getObject(ctx context.Context, key string) ([]byte, error) {
	resp, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var rdr io.Reader = resp.Body
	if s.gzip {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to open compressed object %v: %w",
				key, err)
		}
		defer gz.Close()
		rdr = gz
	}

	return io.ReadAll(rdr)
}

func (s *S3Store) putObject(ctx context.Context, key string, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.objectKey(key)),
		Body:   bytes.NewReader(data),
	}

	if s.gzip {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		if _, err := gw.Write(data); err != nil {
			return fmt.Errorf("failed to gzip data for %v: %w", key, err)
		}
		if err := gw.Close(); err != nil {
			return fmt.Errorf("failed to close gzip writer for %v: %w", key, err)
		}
		input.Body = &buf
		input.ContentEncoding = aws.String("gzip")
	}

	_, err := s.Client.PutObject(ctx, input)
	return err
}

func (s *S3Store) exists(ctx context.Context, key string) (bool, error) {
	_, err := s.Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.objectKey(key)),
	})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}

func tournamentKey(id string) string {
	return tournamentPrefix + id + ".json"
}

func (s *S3Store) Create(ctx context.Context, t *Tournament) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validID(t.ID); err != nil {
		return err
	}
	found, err := s.exists(ctx, tournamentKey(t.ID))
	if err != nil {
		return fmt.Errorf("unable to check tournament %s: %w", t.ID, err)
	}
	if found {
		return fmt.Errorf("%w: %v", ErrExists, t.ID)
	}
	return s.writeTournament(ctx, t)
}

func (s *S3Store) Get(ctx context.Context, id string) (*Tournament, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	data, err := s.getObject(ctx, tournamentKey(id))
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %v", ErrNotFound, id)
		}
		return nil, fmt.Errorf("unable to read tournament %s: %w", id, err)
	}

	var t Tournament
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("unable to decode tournament %s: %w", id, err)
	}
	return &t, nil
}

func (s *S3Store) Save(ctx context.Context, t *Tournament) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validID(t.ID); err != nil {
		return err
	}
	found, err := s.exists(ctx, tournamentKey(t.ID))
	if err != nil {
		return fmt.Errorf("unable to check tournament %s: %w", t.ID, err)
	}
	if !found {
		return fmt.Errorf("%w: %v", ErrNotFound, t.ID)
	}
	return s.writeTournament(ctx, t)
}

func (s *S3Store) writeTournament(ctx context.Context, t *Tournament) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("unable to encode tournament %s: %w", t.ID, err)
	}
	if err := s.putObject(ctx, tournamentKey(t.ID), data); err != nil {
		return fmt.Errorf("unable to write tournament %s: %w", t.ID, err)
	}
	return nil
}

func (s *S3Store) List(ctx context.Context) ([]string, error) {
	suffix := s.objectKey(".json")
	var ids []string

	p := s3.NewListObjectsV2Paginator(s.Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucketName),
		Prefix: aws.String(tournamentPrefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("unable to list tournaments in %s: %w",
				s.bucketName, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !strings.HasSuffix(key, suffix) {
				continue
			}
			id := strings.TrimSuffix(strings.TrimPrefix(key, tournamentPrefix),
				suffix)
			if strings.Contains(id, "/") {
				continue
			}
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	return ids, nil
}

func (s *S3Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validID(id); err != nil {
		return err
	}
	found, err := s.exists(ctx, tournamentKey(id))
	if err != nil {
		return fmt.Errorf("unable to check tournament %s: %w", id, err)
	}
	if !found {
		return fmt.Errorf("%w: %v", ErrNotFound, id)
	}
	_, err = s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.objectKey(tournamentKey(id))),
	})
	if err != nil {
		return fmt.Errorf("unable to delete tournament %s: %w", id, err)
	}
	return nil
}

// BlobCache implements httpcache.Cache on top of an S3Store. Failures are
// logged and reported as misses.
type BlobCache struct {
	store  *S3Store
	prefix string
	ctx    context.Context
}

// Cache returns an httpcache.Cache whose entries live under prefix in the
// store's bucket. ctx is used for every S3 request the cache makes.
func (s *S3Store) Cache(ctx context.Context, prefix string) *BlobCache {
	return &BlobCache{store: s, prefix: prefix, ctx: ctx}
}

func (c *BlobCache) cacheKeyToObjectKey(key string) string {
	h := md5.New()
	io.WriteString(h, key)
	return fmt.Sprintf("%v/%v", c.prefix, hex.EncodeToString(h.Sum(nil)))
}

func (c *BlobCache) Get(key string) ([]byte, bool) {
	objKey := c.cacheKeyToObjectKey(key)
	data, err := c.store.getObject(c.ctx, objKey)
	if err != nil {
		// no such key just indicates a cache miss
		if !isNotFound(err) {
			c.store.Log.WithError(err).WithField("key", objKey).
				Warn("store.cache: failed to get object")
		}
		return []byte{}, false
	}

	return data, true
}

func (c *BlobCache) Set(key string, data []byte) {
	objKey := c.cacheKeyToObjectKey(key)
	if err := c.store.putObject(c.ctx, objKey, data); err != nil {
		c.store.Log.WithError(err).WithField("key", objKey).
			Warn("store.cache: put failed")
	}
}

func (c *BlobCache) Delete(key string) {
	objKey := c.cacheKeyToObjectKey(key)
	_, err := c.store.Client.DeleteObject(c.ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.store.bucketName),
		Key:    aws.String(c.store.objectKey(objKey)),
	})
	if err != nil {
		c.store.Log.WithError(err).WithField("key", objKey).
			Warn("store.cache: delete failed")
	}
}
