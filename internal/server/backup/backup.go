// Package backup uploads periodic JSON snapshots of the served document to an
// S3-compatible bucket.
package backup

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/vignaraja/internal/logging"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
)

// Exporter produces the document to back up.
type Exporter interface {
	Export(ctx context.Context) ([]byte, error)
}

// Settings describe the target bucket.
type Settings struct {
	AccessKey    string
	SecretKey    string
	Bucket       string
	Region       string
	BaseEndpoint string
}

type Backup struct {
	settings Settings
	source   Exporter
	logger   logging.Logger
	client   *s3.Client
	now      func() time.Time
}

// New builds the S3 client for settings.
func New(ctx context.Context, s Settings, source Exporter, l logging.Logger) (*Backup, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.AccessKey,
			s.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &Backup{
		settings: s,
		source:   source,
		logger:   l.With("module", "backup"),
		client:   client,
		now:      time.Now,
	}, nil
}

// SnapshotKey returns a unique object key grouped by day.
func SnapshotKey(d time.Time) string {
	return fmt.Sprintf("snapshots/%d/%d/%d/%v.json", d.Year(), d.Month(), d.Day(), uuid.New())
}

// Snapshot uploads the current document and returns its object key.
func (b *Backup) Snapshot(ctx context.Context) (string, error) {
	data, err := b.source.Export(ctx)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}

	key := SnapshotKey(b.now().UTC())
	_, err = putObject(b.client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.settings.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return key, nil
}

// Run takes a snapshot every interval until ctx is cancelled. Failures are
// logged and retried on the next tick.
func (b *Backup) Run(ctx context.Context, interval time.Duration) {
	b.logger.Info(ctx, "Starting backups", "bucket", b.settings.Bucket, "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.logger.Info(context.Background(), "Stopping backups...")
			return
		case <-ticker.C:
			key, err := b.Snapshot(ctx)
			if err != nil {
				b.logger.Error(ctx, "backup failed", "err", err)
				continue
			}
			b.logger.Info(ctx, "backup stored", "key", key)
		}
	}
}
