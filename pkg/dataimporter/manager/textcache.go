package manager

import (
	"context"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/travigo/timetable-sheets/pkg/redis_client"
)

const textCacheExpiration = 7 * 24 * time.Hour

// TextCache keeps rendered sheet text keyed by the hash of the source document, so unchanged
// documents forced through an import are not rendered again
type TextCache struct {
	Cache *cache.Cache[string]
}

// NewTextCache returns nil when Redis is not connected, every method treats a nil cache as always missing
func NewTextCache() *TextCache {
	if !redis_client.Connected() {
		return nil
	}

	redisStore := redisstore.NewRedis(redis_client.Client, store.WithExpiration(textCacheExpiration))

	return &TextCache{
		Cache: cache.New[string](redisStore),
	}
}

func (t *TextCache) Get(ctx context.Context, hash string) ([]byte, bool) {
	if t == nil || hash == "" {
		return nil, false
	}

	text, err := t.Cache.Get(ctx, cacheKey(hash))
	if err != nil {
		return nil, false
	}

	return []byte(text), true
}

func (t *TextCache) Set(ctx context.Context, hash string, text []byte) error {
	if t == nil || hash == "" {
		return nil
	}

	return t.Cache.Set(ctx, cacheKey(hash), string(text))
}

func cacheKey(hash string) string {
	return fmt.Sprintf("timetable-sheets:text:%s", hash)
}
