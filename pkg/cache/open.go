package cache

import (
	"context"
	"strings"

	sterrors "github.com/matzehuels/stringart/pkg/errors"
)

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendNone   = "none"
	BackendMemory = "memory"
)

// Open returns the cache described by backend:
//
//	""  or "file"          FileCache in dir
//	"none" or "off"        NullCache
//	"memory"               MemoryCache (DefaultMemoryEntries)
//	"redis://..."          RedisCache
//	"mongodb://..."        MongoCache (also mongodb+srv://)
func Open(ctx context.Context, backend, dir string) (Cache, error) {
	switch {
	case backend == "" || backend == BackendFile:
		if dir == "" {
			return nil, sterrors.New(sterrors.ErrCodeInvalidConfig, "file cache needs a directory")
		}
		c, err := NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case backend == BackendNone || backend == "off":
		return NewNullCache(), nil
	case backend == BackendMemory:
		return NewMemoryCache(DefaultMemoryEntries), nil
	case strings.HasPrefix(backend, "redis://"), strings.HasPrefix(backend, "rediss://"):
		c, err := NewRedisCache(ctx, backend)
		if err != nil {
			return nil, dialError("redis", err)
		}
		return c, nil
	case strings.HasPrefix(backend, "mongodb://"), strings.HasPrefix(backend, "mongodb+srv://"):
		c, err := NewMongoCache(ctx, backend)
		if err != nil {
			return nil, dialError("mongo", err)
		}
		return c, nil
	default:
		return nil, sterrors.New(sterrors.ErrCodeInvalidConfig,
			"unknown cache backend %q (want file, none, memory, redis://... or mongodb://...)", backend)
	}
}

// dialError marks unreachable servers as NETWORK_ERROR. Malformed URLs keep
// their own error.
func dialError(kind string, err error) error {
	if IsUnavailable(err) {
		return sterrors.Wrap(sterrors.ErrCodeNetwork, err, "%s cache unreachable", kind)
	}
	return err
}
