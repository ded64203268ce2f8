package snapshot

import (
	"context"
	"path"
	"strings"

	"github.com/vango-dev/head/internal/config"
	"github.com/vango-dev/head/internal/errors"
)

// ContentType is the content type of stored snapshots.
const ContentType = "text/html; charset=utf-8"

// Store persists rendered snapshots.
type Store interface {
	Put(ctx context.Context, key string, body []byte) error
}

// CleanKey validates key and returns it in canonical form.
func CleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return "", errors.New("E302").WithSuggestion("Got " + quote(key))
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." {
			return "", errors.New("E302").WithSuggestion("Got " + quote(key))
		}
	}
	return path.Clean(key), nil
}

func quote(s string) string {
	return `"` + s + `"`
}

// Open returns the store selected by cfg.
func Open(ctx context.Context, cfg config.SnapshotConfig) (Store, error) {
	switch cfg.Backend() {
	case config.BackendS3:
		client := NewS3Client(cfg.S3.Region)
		return NewS3Store(client, cfg.S3.Bucket, cfg.S3.Prefix), nil
	case config.BackendFile:
		return NewFileStore(cfg.Dir)
	default:
		return nil, errors.New("E106").
			WithDetail("no snapshot backend configured").
			WithSuggestion("Set snapshot.dir or snapshot.s3.bucket")
	}
}
