// Package cache provides an optional, bounded verdict cache so bulk email
// scans do not re-research the same person over and over. Entries expire by
// TTL and the cache is never relied on across process restarts.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/OneOfOne/xxhash"
	"github.com/codeGROOVE-dev/sfcache"
	"github.com/codeGROOVE-dev/sfcache/pkg/store/null"
	"github.com/redis/go-redis/v9"

	"github.com/entrepreno/entrepreno/src/research"
)

// Fetch produces a fresh record on cache miss. It must be total.
type Fetch func(ctx context.Context) research.Record

// Store is a read-through verdict cache keyed by person name. A nil Store
// means caching is disabled and callers just invoke their fetch directly.
type Store interface {
	GetSet(ctx context.Context, name string, fetch Fetch) research.Record
}

// Key hashes a person name into a cache key. Case and surrounding space are
// not identity.
func Key(name string) string {
	sum := xxhash.Checksum64([]byte(strings.ToLower(strings.TrimSpace(name))))
	return "verdict:" + strconv.FormatUint(sum, 16)
}

// ERROR verdicts are never cached; the next scan should retry.
var errNotCacheable = errors.New("verdict not cacheable")

// Memory is an in-process single-flight cache with TTL expiry.
type Memory struct {
	tc  *sfcache.TieredCache[string, []byte]
	ttl time.Duration
}

// NewMemory builds an in-memory verdict cache. Entries live for ttl.
func NewMemory(ttl time.Duration) (*Memory, error) {
	tc, err := sfcache.NewTiered[string, []byte](null.New[string, []byte](), sfcache.TTL(ttl))
	if err != nil {
		return nil, err
	}
	return &Memory{tc: tc, ttl: ttl}, nil
}

func (m *Memory) GetSet(ctx context.Context, name string, fetch Fetch) research.Record {
	var fresh *research.Record

	data, err := m.tc.GetSet(ctx, Key(name), func(ctx context.Context) ([]byte, error) {
		rec := fetch(ctx)
		fresh = &rec
		if rec.Verdict == research.VerdictError {
			return nil, errNotCacheable
		}
		return json.Marshal(rec)
	}, m.ttl)

	if fresh != nil {
		// This call did the research; return its result regardless of
		// whether it was cacheable.
		return *fresh
	}
	if err == nil {
		var rec research.Record
		if jsonErr := json.Unmarshal(data, &rec); jsonErr == nil {
			return rec
		}
	}
	// Cache layer misbehaved; fall through to a direct fetch.
	return fetch(ctx)
}

// Redis is a shared verdict cache for multi-instance deployments.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedis wraps an existing redis client as a verdict cache.
func NewRedis(rdb *redis.Client, ttl time.Duration) *Redis {
	return &Redis{rdb: rdb, ttl: ttl}
}

func (r *Redis) GetSet(ctx context.Context, name string, fetch Fetch) research.Record {
	key := Key(name)

	if data, err := r.rdb.Get(ctx, key).Bytes(); err == nil {
		var rec research.Record
		if jsonErr := json.Unmarshal(data, &rec); jsonErr == nil {
			return rec
		}
	}

	rec := fetch(ctx)
	if rec.Verdict != research.VerdictError {
		if data, err := json.Marshal(rec); err == nil {
			r.rdb.Set(ctx, key, data, r.ttl)
		}
	}
	return rec
}
