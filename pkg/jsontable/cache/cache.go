// Package cache stores extraction results keyed by source path and options.
//
// An entry is valid while the source file's modification time is not later
// than the one recorded when the entry was stored. Entries are zstd-compressed
// JSON envelopes. Read or decode failures count as misses; they are logged and
// never returned to the caller.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
	"github.com/sasakama-code/jsontable-go/internal/logging"
	"github.com/sasakama-code/jsontable-go/internal/metrics"
	"go.uber.org/zap"
)

const (
	formatVersion = 1
	entrySuffix   = ".cache"
	hashLength    = 16
)

var (
	encoder, _ = zstd.NewWriter(nil)
	decoder, _ = zstd.NewReader(nil)
)

type envelope struct {
	Version       int             `json:"version"`
	Key           string          `json:"key"`
	SourcePath    string          `json:"source_path"`
	CreatedAt     time.Time       `json:"created_at"`
	SourceModTime time.Time       `json:"source_mod_time"`
	Payload       json.RawMessage `json:"payload"`
}

type settings struct {
	capacity int
	logger   *zap.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// Option configures a Cache.
type Option func(*settings)

// WithCapacity bounds the number of stored entries. Zero means unbounded.
func WithCapacity(n int) Option {
	return func(s *settings) { s.capacity = n }
}

// WithLogger sets the logger used for downgraded failures.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithMetrics records hits, misses and evictions.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *settings) { s.metrics = m }
}

// WithClock replaces time.Now for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// Cache is a result cache for values of type T.
type Cache[T any] struct {
	storage Storage
	settings
}

// New returns a cache over storage.
func New[T any](storage Storage, opts ...Option) *Cache[T] {
	s := settings{now: time.Now}
	for _, opt := range opts {
		opt(&s)
	}
	s.logger = logging.OrNop(s.logger)
	return &Cache[T]{storage: storage, settings: s}
}

// Key hashes the source path with the options, canonicalized as key-sorted JSON.
func Key(sourcePath string, options any) (string, error) {
	canonical, err := canonicalize(options)
	if err != nil {
		return "", fmt.Errorf("canonicalize options: %w", err)
	}
	sum := sha256.Sum256([]byte(sourcePath + "\x00" + string(canonical)))
	return hex.EncodeToString(sum[:])[:hashLength], nil
}

// canonicalize round-trips v through a generic map so field order and map
// insertion order do not affect the encoding.
func canonicalize(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return json.Marshal(generic)
}

// EntryName returns the storage name of an entry: <source-stem>_<key>.cache.
func EntryName(sourcePath, key string) string {
	return sourceStem(sourcePath) + "_" + key + entrySuffix
}

func sourceStem(sourcePath string) string {
	base := filepath.Base(sourcePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Get returns the stored value when an entry exists for the source and options
// and modTime is not later than the source time recorded with it.
func (c *Cache[T]) Get(sourcePath string, options any, modTime time.Time) (T, bool) {
	var zero T
	key, err := Key(sourcePath, options)
	if err != nil {
		c.logger.Warn("cache key failed", zap.String("source", sourcePath), zap.Error(err))
		c.metrics.CacheMiss()
		return zero, false
	}
	name := EntryName(sourcePath, key)

	env, err := c.readEnvelope(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.logger.Debug("cache miss", zap.String("entry", name))
		} else {
			c.logger.Warn("cache entry unreadable", zap.String("entry", name), zap.Error(err))
		}
		c.metrics.CacheMiss()
		return zero, false
	}
	if env.Key != key || env.SourcePath != sourcePath {
		c.logger.Debug("cache entry belongs to another source", zap.String("entry", name))
		c.metrics.CacheMiss()
		return zero, false
	}
	if modTime.After(env.SourceModTime) {
		c.logger.Debug("cache entry stale", zap.String("entry", name),
			zap.Time("source_mod_time", modTime), zap.Time("stored_mod_time", env.SourceModTime))
		c.metrics.CacheMiss()
		return zero, false
	}

	var value T
	if err := json.Unmarshal(env.Payload, &value); err != nil {
		c.logger.Warn("cache payload unreadable", zap.String("entry", name), zap.Error(err))
		c.metrics.CacheMiss()
		return zero, false
	}
	c.metrics.CacheHit()
	return value, true
}

// Put stores value for the source and options. When the cache is at capacity
// the single oldest other entry is evicted first.
func (c *Cache[T]) Put(sourcePath string, options any, modTime time.Time, value T) error {
	key, err := Key(sourcePath, options)
	if err != nil {
		return err
	}
	name := EntryName(sourcePath, key)

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache payload: %w", err)
	}
	raw, err := json.Marshal(envelope{
		Version:       formatVersion,
		Key:           key,
		SourcePath:    sourcePath,
		CreatedAt:     c.now().UTC(),
		SourceModTime: modTime,
		Payload:       payload,
	})
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	if err := c.evict(name); err != nil {
		c.logger.Warn("cache eviction failed", zap.Error(err))
	}
	if err := c.storage.Write(name, encoder.EncodeAll(raw, nil)); err != nil {
		return fmt.Errorf("store cache entry: %w", err)
	}
	return nil
}

// evict removes the oldest entry other than incoming when the cache is full.
// Unreadable entries count as the oldest.
func (c *Cache[T]) evict(incoming string) error {
	if c.capacity <= 0 {
		return nil
	}
	names, err := c.storage.List()
	if err != nil {
		return err
	}

	others := 0
	oldest := ""
	var oldestAt time.Time
	for _, name := range names {
		if name == incoming {
			continue
		}
		others++
		env, err := c.readEnvelope(name)
		var at time.Time
		if err == nil {
			at = env.CreatedAt
		}
		if oldest == "" || at.Before(oldestAt) {
			oldest, oldestAt = name, at
		}
	}
	if others < c.capacity {
		return nil
	}

	if err := c.storage.Remove(oldest); err != nil {
		return err
	}
	c.logger.Debug("cache entry evicted", zap.String("entry", oldest))
	c.metrics.CacheEviction()
	return nil
}

// Clear removes every entry stored for sourcePath, or all entries when
// sourcePath is empty. It returns the number of entries removed.
func (c *Cache[T]) Clear(sourcePath string) (int, error) {
	names, err := c.storage.List()
	if err != nil {
		return 0, err
	}
	prefix := ""
	if sourcePath != "" {
		prefix = sourceStem(sourcePath) + "_"
	}

	removed := 0
	for _, name := range names {
		if sourcePath != "" {
			if !strings.HasPrefix(name, prefix) {
				continue
			}
			env, err := c.readEnvelope(name)
			if err != nil || env.SourcePath != sourcePath {
				continue
			}
		}
		if err := c.storage.Remove(name); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (c *Cache[T]) readEnvelope(name string) (envelope, error) {
	var env envelope
	compressed, err := c.storage.Read(name)
	if err != nil {
		return env, err
	}
	raw, err := decoder.DecodeAll(compressed, nil)
	if err != nil {
		return env, fmt.Errorf("decompress: %w", err)
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return env, fmt.Errorf("decode: %w", err)
	}
	if env.Version != formatVersion {
		return env, fmt.Errorf("unsupported cache format version %d", env.Version)
	}
	return env, nil
}
