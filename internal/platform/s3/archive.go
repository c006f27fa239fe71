package s3

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/imamik/podtrain/internal/config"
	"github.com/imamik/podtrain/internal/util/naming"
)

// objectStore is the subset of Client the Archiver needs.
type objectStore interface {
	EnsureBucket(ctx context.Context, bucketName string) error
	PutObject(ctx context.Context, bucketName, key string, body io.ReadSeeker, size int64) error
}

// Archiver uploads a local results directory under a per-pod prefix.
type Archiver struct {
	store  objectStore
	bucket string
	prefix string
	log    logrus.FieldLogger
}

// NewArchiver creates an archiver for the configured bucket.
func NewArchiver(cfg config.ArchiveConfig, log logrus.FieldLogger) (*Archiver, error) {
	client, err := NewClient(cfg.Endpoint, cfg.Region, cfg.AccessKey, cfg.SecretKey)
	if err != nil {
		return nil, err
	}
	return &Archiver{store: client, bucket: cfg.Bucket, prefix: cfg.Prefix, log: log}, nil
}

// Archive mirrors localDir to <prefix>/<podID>/ in the bucket and returns
// the number of objects written.
func (a *Archiver) Archive(ctx context.Context, localDir, podID string) (int, error) {
	if err := a.store.EnsureBucket(ctx, a.bucket); err != nil {
		return 0, err
	}

	base := naming.ArchiveRoot(a.prefix, podID)
	count := 0

	err := filepath.WalkDir(localDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(localDir, p)
		if err != nil {
			return err
		}
		key := naming.ArchiveKey(a.prefix, podID, filepath.ToSlash(rel))

		if err := a.putFile(ctx, p, key); err != nil {
			return err
		}
		count++
		a.log.Debugf("[Archive] Uploaded s3://%s/%s", a.bucket, key)
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("failed to archive %s: %w", localDir, err)
	}

	a.log.Infof("[Archive] Uploaded %d files to s3://%s/%s/", count, a.bucket, base)
	return count, nil
}

func (a *Archiver) putFile(ctx context.Context, local, key string) error {
	f, err := os.Open(local)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	return a.store.PutObject(ctx, a.bucket, key, f, info.Size())
}
