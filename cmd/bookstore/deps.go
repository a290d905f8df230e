package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/erazemk/bookstore/internal/config"
	"github.com/erazemk/bookstore/internal/images"
	"github.com/erazemk/bookstore/internal/store"
)

// openImages returns the bucket store when an endpoint is configured and the
// public image directory otherwise.
func openImages(ctx context.Context, cfg *config.Config) (images.Store, error) {
	if !cfg.UseBucket() {
		disk, err := images.NewDisk(cfg.ImageDir())
		if err != nil {
			return nil, err
		}
		slog.Info("images on disk", "dir", disk.Dir)
		return disk, nil
	}

	bucket, err := images.NewBucket(cfg.S3)
	if err != nil {
		return nil, err
	}
	if err := bucket.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	slog.Info("images in bucket", "endpoint", cfg.S3.Endpoint, "bucket", cfg.S3.Bucket)
	return bucket, nil
}

func openBooks(ctx context.Context, cfg *config.Config) (store.Books, error) {
	books, err := store.Open(ctx, cfg.DB, cfg.MongoDatabase)
	if err != nil {
		return nil, fmt.Errorf("opening book store: %w", err)
	}
	if store.IsMongoURI(cfg.DB) {
		slog.Info("database ready", "driver", "mongodb", "database", cfg.MongoDatabase)
	} else {
		slog.Info("database ready", "driver", "sqlite", "path", cfg.DB)
	}
	return books, nil
}
