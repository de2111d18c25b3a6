package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ExportArchive stores copies of exported PDFs in an object bucket. It is an
// optional side channel: the download endpoints work identically without it.
type ExportArchive struct {
	client *minio.Client
	bucket string
}

// NewExportArchive creates the MinIO client and ensures the bucket exists.
func NewExportArchive(cfg *MinIOConfig) (*ExportArchive, error) {
	if cfg == nil || cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	a := &ExportArchive{client: mc, bucket: cfg.Bucket}
	// ensure bucket exists (idempotent)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		exist, xerr := mc.BucketExists(ctx, a.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return a, nil
}

// StorePDF uploads an exported PDF under kind/docID/<timestamp>.pdf and
// returns the object key.
func (a *ExportArchive) StorePDF(ctx context.Context, kind, docID string, pdf []byte) (string, error) {
	key := fmt.Sprintf("%s/%s/%d.pdf", kind, docID, time.Now().UTC().UnixNano())
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(pdf), int64(len(pdf)),
		minio.PutObjectOptions{ContentType: "application/pdf"})
	if err != nil {
		return "", err
	}
	return key, nil
}

// Fetch returns a ReadCloser for a previously archived object.
func (a *ExportArchive) Fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}
