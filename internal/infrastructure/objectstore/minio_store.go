// Package objectstore guarda los logos de las empresas en un bucket S3 compatible (MinIO, Supabase Storage).
package objectstore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ldtnet/pdv-api/internal/application/ports"
	"github.com/ldtnet/pdv-api/pkg/config"
)

var _ ports.ObjectStorage = (*MinioStore)(nil)

// MinioStore implementa ports.ObjectStorage.
type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinioStore crea el cliente. No abre conexiones hasta la primera operación.
func NewMinioStore(cfg config.StorageConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("objectstore: crear cliente: %w", err)
	}
	base := strings.TrimRight(cfg.PublicURL, "/")
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}
	return &MinioStore{client: client, bucket: cfg.Bucket, publicURL: base}, nil
}

// EnsureBucket crea el bucket si no existe. Se llama al arrancar.
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	found, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("objectstore: verificar bucket: %w", err)
	}
	if found {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("objectstore: crear bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Put sube el objeto y devuelve su URL pública.
func (s *MinioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=3600",
	})
	if err != nil {
		return "", fmt.Errorf("objectstore: subir %s: %w", key, err)
	}
	return s.URL(key), nil
}

// URL pública del objeto.
func (s *MinioStore) URL(key string) string {
	return s.publicURL + "/" + strings.TrimLeft(key, "/")
}
