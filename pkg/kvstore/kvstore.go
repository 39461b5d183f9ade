// Package kvstore provides durable key-value backends for small JSON records.
package kvstore

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// KV is a keyed store of opaque values
type KV interface {
	// Get returns the value for key and whether it exists
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes key; removing a missing key is not an error
	Remove(ctx context.Context, key string) error
}

// Backend names accepted by Open
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
)

// Options selects and configures a backend
type Options struct {
	Backend     string
	Dir         string
	MongoURI    string
	MongoDB     string
	PostgresDSN string
}

// Store is a KV that holds resources which must be released
type Store interface {
	KV
	Close(ctx context.Context) error
}

// Open returns the backend named in opts. An empty backend means file.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendFile:
		dir := opts.Dir
		if dir == "" {
			var err error
			dir, err = DefaultDir()
			if err != nil {
				return nil, err
			}
		}
		return NewFileStore(dir)
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendMongo:
		return OpenMongo(ctx, opts.MongoURI, opts.MongoDB)
	case BackendPostgres:
		return OpenPostgres(ctx, opts.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// fileName maps a key onto a safe filesystem name
func fileName(key string) string {
	return unsafeKeyChars.ReplaceAllString(filepath.Base(key), "_") + ".json"
}
