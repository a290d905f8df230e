package images

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// BucketConfig describes an S3-compatible bucket.
type BucketConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// Bucket stores images as objects in an S3-compatible bucket.
type Bucket struct {
	client *minio.Client
	bucket string
	region string
}

// NewBucket creates a client for cfg. Call EnsureBucket before first use.
func NewBucket(cfg BucketConfig) (*Bucket, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}
	return &Bucket{client: client, bucket: cfg.Bucket, region: cfg.Region}, nil
}

// EnsureBucket creates the bucket if it does not exist.
func (b *Bucket) EnsureBucket(ctx context.Context) error {
	exists, err := b.client.BucketExists(ctx, b.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", b.bucket, err)
	}
	if !exists {
		if err := b.client.MakeBucket(ctx, b.bucket, minio.MakeBucketOptions{Region: b.region}); err != nil {
			return fmt.Errorf("make bucket %s: %w", b.bucket, err)
		}
	}
	return nil
}

// Save uploads r as a new randomly named object.
func (b *Bucket) Save(ctx context.Context, original string, r io.Reader) (string, error) {
	name, err := NewName(original)
	if err != nil {
		return "", err
	}

	body, size, err := sized(r)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	opts := minio.PutObjectOptions{ContentType: contentType(name)}
	if _, err := b.client.PutObject(ctx, b.bucket, name, body, size, opts); err != nil {
		return "", fmt.Errorf("upload image object: %w", err)
	}
	return name, nil
}

// sized returns r with its remaining length. PutObject with an unknown length
// buffers a multipart part sized for the largest possible object.
func sized(r io.Reader) (io.Reader, int64, error) {
	if s, ok := r.(io.Seeker); ok {
		cur, err := s.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, 0, err
		}
		end, err := s.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, 0, err
		}
		if _, err := s.Seek(cur, io.SeekStart); err != nil {
			return nil, 0, err
		}
		return r, end - cur, nil
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, 0, err
	}
	return &buf, int64(buf.Len()), nil
}

// Remove deletes the named object.
func (b *Bucket) Remove(ctx context.Context, name string) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	if err := b.client.RemoveObject(ctx, b.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove image object: %w", err)
	}
	return nil
}

// Exists reports whether the named object is present.
func (b *Bucket) Exists(ctx context.Context, name string) (bool, error) {
	name, err := cleanName(name)
	if err != nil {
		return false, err
	}
	_, err = b.client.StatObject(ctx, b.bucket, name, minio.StatObjectOptions{})
	if isNoSuchKey(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat image object: %w", err)
	}
	return true, nil
}

// List returns all object names in the bucket.
func (b *Bucket) List(ctx context.Context) ([]string, error) {
	var names []string
	for obj := range b.client.ListObjects(ctx, b.bucket, minio.ListObjectsOptions{}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list image objects: %w", obj.Err)
		}
		names = append(names, obj.Key)
	}
	return names, nil
}

// Serve streams the named object.
func (b *Bucket) Serve(w http.ResponseWriter, r *http.Request, name string) {
	name, err := cleanName(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	obj, err := b.client.GetObject(r.Context(), b.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		slog.Error("failed to get image object", "image", name, "error", err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
	defer obj.Close()

	info, err := obj.Stat()
	if isNoSuchKey(err) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to stat image object", "image", name, "error", err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	if info.ContentType != "" {
		w.Header().Set("Content-Type", info.ContentType)
	}
	http.ServeContent(w, r, name, info.LastModified, obj)
}

func isNoSuchKey(err error) bool {
	return err != nil && minio.ToErrorResponse(err).Code == "NoSuchKey"
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
