// Copyright 2026 The biomedRelExt Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package biomedrelext

import (
	"context"
	"encoding/binary"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/cryptoradon/biomedRelExt/lib/document"
	"github.com/cryptoradon/biomedRelExt/lib/segment"
	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// SegmenterCacheTTL is the default TTL for cached sentence spans
const SegmenterCacheTTL = 10 * time.Minute

// CachedSegmenter wraps a Segmenter with caching support. Cached span
// slices are shared between callers and must not be modified.
type CachedSegmenter struct {
	segmenter segment.Segmenter
	name      string
	cache     *ttlcache.Cache[string, []document.Span]
	sfGroup   *singleflight.Group
	logger    *zap.Logger

	// Metrics
	hits   atomic.Uint64
	misses atomic.Uint64
	sfHits atomic.Uint64
}

// NewCachedSegmenter wraps seg with a cache of the given TTL (zero selects
// SegmenterCacheTTL). Close stops the cache.
func NewCachedSegmenter(seg segment.Segmenter, name string, ttl time.Duration, logger *zap.Logger) *CachedSegmenter {
	if ttl <= 0 {
		ttl = SegmenterCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cache := ttlcache.New(
		ttlcache.WithTTL[string, []document.Span](ttl),
	)
	go cache.Start()

	return &CachedSegmenter{
		segmenter: seg,
		name:      name,
		cache:     cache,
		sfGroup:   &singleflight.Group{},
		logger:    logger,
	}
}

// Segment returns sentence spans with caching support
func (c *CachedSegmenter) Segment(ctx context.Context, text string) ([]document.Span, error) {
	key := c.cacheKey(text)

	if item := c.cache.Get(key); item != nil {
		c.hits.Add(1)
		RecordCacheHit("segmenter")
		return item.Value(), nil
	}

	// Use singleflight to deduplicate concurrent identical requests
	result, err, shared := c.sfGroup.Do(key, func() (any, error) {
		c.misses.Add(1)
		RecordCacheMiss("segmenter")

		start := time.Now()
		spans, err := c.segmenter.Segment(ctx, text)
		if err != nil {
			return nil, err
		}
		c.cache.Set(key, spans, ttlcache.DefaultTTL)

		c.logger.Debug("Segmentation completed and cached",
			zap.String("segmenter", c.name),
			zap.Int("sentences", len(spans)),
			zap.Duration("duration", time.Since(start)))
		return spans, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		c.sfHits.Add(1)
	}
	return result.([]document.Span), nil
}

// cacheKey generates a unique cache key from segmenter name + text
func (c *CachedSegmenter) cacheKey(text string) string {
	h := xxhash.New()
	_, _ = h.WriteString(c.name)
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(text)

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], h.Sum64())
	return string(buf[:])
}

// Stats returns cache statistics
func (c *CachedSegmenter) Stats() SegmenterCacheStats {
	return SegmenterCacheStats{
		Segmenter:        c.name,
		Hits:             c.hits.Load(),
		Misses:           c.misses.Load(),
		SingleflightHits: c.sfHits.Load(),
	}
}

// Close stops the cache
func (c *CachedSegmenter) Close() {
	c.cache.Stop()
}

// SegmenterCacheStats holds cache statistics for a segmenter
type SegmenterCacheStats struct {
	Segmenter        string `json:"segmenter"`
	Hits             uint64 `json:"hits"`
	Misses           uint64 `json:"misses"`
	SingleflightHits uint64 `json:"singleflight_hits"`
}
