// Package archive keeps copies of generated policy documents in
// object storage. The component is optional; without a configured
// endpoint the bot deletes each document after sending it.
package archive

import (
	"context"
	"fmt"
	"net/url"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"

	"github.com/rakshit1504/insurance-final-bot/internal/config"
)

// Client uploads documents to an S3-compatible bucket
type Client struct {
	minioClient *minio.Client
	bucket      string
}

// New creates an archive client, or returns (nil, nil) when no
// endpoint is configured
func New(cfg *config.Config) (*Client, error) {
	if cfg.ArchiveEndpoint == "" {
		return nil, nil
	}

	if cfg.ArchiveAccessKey == "" {
		return nil, fmt.Errorf("ARCHIVE_ACCESS_KEY or ARCHIVE_ACCESS_KEY_ID environment variable is required when ARCHIVE_ENDPOINT is set")
	}
	if cfg.ArchiveSecretKey == "" {
		return nil, fmt.Errorf("ARCHIVE_SECRET_KEY or ARCHIVE_SECRET_ACCESS_KEY environment variable is required when ARCHIVE_ENDPOINT is set")
	}

	// Parse endpoint URL
	u, err := url.Parse(cfg.ArchiveEndpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid ARCHIVE_ENDPOINT '%s': %w (expected format: https://hostname:port)", cfg.ArchiveEndpoint, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid ARCHIVE_ENDPOINT scheme '%s': must be http or https", u.Scheme)
	}

	if u.Host == "" {
		return nil, fmt.Errorf("invalid ARCHIVE_ENDPOINT '%s': missing hostname", cfg.ArchiveEndpoint)
	}

	minioClient, err := minio.New(u.Host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.ArchiveAccessKey, cfg.ArchiveSecretKey, ""),
		Secure: u.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create archive client for %s: %w", u.Host, err)
	}

	logrus.WithFields(logrus.Fields{
		"endpoint": u.Host,
		"bucket":   cfg.ArchiveBucket,
	}).Info("Document archive enabled")

	return &Client{
		minioClient: minioClient,
		bucket:      cfg.ArchiveBucket,
	}, nil
}

// Store uploads the document at path under objectName
func (c *Client) Store(ctx context.Context, path, objectName string) error {
	exists, err := c.minioClient.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check archive bucket: %w", err)
	}

	if !exists {
		if err := c.minioClient.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create archive bucket: %w", err)
		}
	}

	if _, err := c.minioClient.FPutObject(ctx, c.bucket, objectName, path, minio.PutObjectOptions{
		ContentType: "application/pdf",
	}); err != nil {
		return fmt.Errorf("failed to archive document %s: %w", objectName, err)
	}

	logrus.WithFields(logrus.Fields{
		"bucket": c.bucket,
		"object": objectName,
	}).Debug("Archived policy document")

	return nil
}
