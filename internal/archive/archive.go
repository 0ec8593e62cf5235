// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

// Package archive writes a JSON snapshot of every recommendation result to
// S3-compatible object storage under
// recommendations/{group_id}/{timestamp}.json.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"github.com/tomtom215/grubsync/internal/config"
	"github.com/tomtom215/grubsync/internal/logging"
	"github.com/tomtom215/grubsync/internal/metrics"
	"github.com/tomtom215/grubsync/internal/models"
)

// timestampLayout sorts lexically in time order.
const timestampLayout = "20060102T150405.000Z"

// ObjectStore is the subset of *minio.Client the archiver uses.
type ObjectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Archiver stores recommendation snapshots.
type Archiver struct {
	store  ObjectStore
	bucket string
	region string
	logger zerolog.Logger
}

// NewMinioClient connects to the configured endpoint.
func NewMinioClient(cfg config.ArchiveConfig) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return client, nil
}

// New creates an archiver writing to bucket.
func New(store ObjectStore, bucket, region string) *Archiver {
	return &Archiver{
		store:  store,
		bucket: bucket,
		region: region,
		logger: logging.WithComponent("archive").With().Str("bucket", bucket).Logger(),
	}
}

// EnsureBucket creates the bucket when it does not exist yet.
func (a *Archiver) EnsureBucket(ctx context.Context) error {
	exists, err := a.store.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", a.bucket, err)
	}
	if exists {
		return nil
	}
	if err := a.store.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{Region: a.region}); err != nil {
		return fmt.Errorf("create bucket %s: %w", a.bucket, err)
	}
	a.logger.Info().Msg("Created archive bucket")
	return nil
}

// Name identifies the archiver as a result sink.
func (a *Archiver) Name() string { return "archive" }

// Store uploads r as a JSON snapshot.
func (a *Archiver) Store(ctx context.Context, r *models.RecommendationResult) (err error) {
	defer func() { metrics.RecordArchiveWrite(err) }()

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	key := ObjectKey(r.GroupID, r.GeneratedAt)
	info, err := a.store.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{
			ContentType: "application/json",
			UserMetadata: map[string]string{
				"group-id":     r.GroupID,
				"requester-id": r.RequesterID,
			},
		})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}

	a.logger.Debug().Str("key", info.Key).Int64("size", info.Size).Msg("Archived recommendation")
	return nil
}

// ObjectKey returns the snapshot key for a group at time t.
func ObjectKey(groupID string, t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return fmt.Sprintf("recommendations/%s/%s.json", url.PathEscape(groupID), t.UTC().Format(timestampLayout))
}
