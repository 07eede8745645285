package snapshot

import (
	"context"
	"errors"
	"path"
	"strings"

	vperrors "github.com/vango-dev/vpatch/internal/errors"
)

// ErrNotFound is wrapped by errors for keys that do not exist.
var ErrNotFound = errors.New("snapshot: frame not found")

// ErrInvalidKey is wrapped by errors for keys that are empty, absolute or
// escape the store root.
var ErrInvalidKey = errors.New("snapshot: invalid key")

// Store is the interface for frame storage backends. Keys are
// slash-separated relative paths.
type Store interface {
	// Put stores data under key, replacing any previous value.
	Put(ctx context.Context, key string, data []byte) error

	// Get returns the data stored under key. Missing keys fail with an
	// E160 error wrapping ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// List returns the keys starting with prefix in ascending order.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Driver names accepted by Open.
const (
	DriverMemory = "memory"
	DriverDisk   = "disk"
	DriverS3     = "s3"
)

// Options selects and configures a store for Open.
type Options struct {
	Driver string

	// Dir is the DiskStore root.
	Dir string

	// S3 settings.
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	PathStyle bool
}

// Open builds the store named by opts.Driver. An empty driver selects the
// memory store.
func Open(opts Options) (Store, error) {
	switch opts.Driver {
	case "", DriverMemory:
		return NewMemoryStore(), nil
	case DriverDisk:
		if opts.Dir == "" {
			return nil, vperrors.New("E161").WithDetail("the disk snapshot driver needs a directory")
		}
		return NewDiskStore(opts.Dir)
	case DriverS3:
		if opts.Bucket == "" {
			return nil, vperrors.New("E161").WithDetail("the s3 snapshot driver needs a bucket")
		}
		client := NewS3Client(S3ClientOptions{
			Region:    opts.Region,
			Endpoint:  opts.Endpoint,
			PathStyle: opts.PathStyle,
		})
		return NewS3Store(client, opts.Bucket, opts.Prefix), nil
	default:
		return nil, vperrors.New("E161").
			WithDetailf("unknown snapshot driver %q", opts.Driver).
			WithSuggestion(`Use "memory", "disk" or "s3".`)
	}
}

// validateKey rejects keys that could escape a store's root.
func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return invalidKey(key)
	}
	if path.Clean(key) != key || key == "." || key == ".." || strings.HasPrefix(key, "../") {
		return invalidKey(key)
	}
	return nil
}

func invalidKey(key string) error {
	return vperrors.New("E161").WithDetailf("key %q", key).Wrap(ErrInvalidKey)
}

func notFound(key string) error {
	return vperrors.New("E160").WithDetailf("key %q", key).Wrap(ErrNotFound)
}

func storeError(op, key string, err error) error {
	return vperrors.New("E161").WithDetailf("%s %q", op, key).Wrap(err)
}
