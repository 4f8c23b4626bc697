package listen

import (
	"strings"
	"sync"
	"time"

	"github.com/listentui/listentui/filesystem"
	"github.com/metafates/gache"
	"github.com/samber/mo"
)

// cacheData is the on-disk layout of a cacher.
type cacheData[K comparable, T any] struct {
	Entries map[K]T `json:"entries"`
}

// cacher is a persistent map whose whole content expires at once.
type cacher[K comparable, T any] struct {
	internal   *gache.Cache[*cacheData[K, T]]
	keyWrapper func(K) K
	mu         sync.RWMutex
}

func newCacher[K comparable, T any](path string, lifetime time.Duration, keyWrapper func(K) K) *cacher[K, T] {
	return &cacher[K, T]{
		internal: gache.New[*cacheData[K, T]](&gache.Options{
			Path:       path,
			Lifetime:   lifetime,
			FileSystem: &filesystem.GacheFs{},
		}),
		keyWrapper: keyWrapper,
	}
}

func (c *cacher[K, T]) Get(key K) mo.Option[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, expired, err := c.internal.Get()
	if err != nil || expired || data == nil {
		return mo.None[T]()
	}

	if value, ok := data.Entries[c.keyWrapper(key)]; ok {
		return mo.Some(value)
	}
	return mo.None[T]()
}

func (c *cacher[K, T]) Set(key K, value T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, expired, err := c.internal.Get()
	if err != nil {
		return err
	}

	if expired || data == nil || data.Entries == nil {
		data = &cacheData[K, T]{Entries: make(map[K]T)}
	}
	data.Entries[c.keyWrapper(key)] = value
	return c.internal.Set(data)
}

func (c *cacher[K, T]) Delete(key K) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, expired, err := c.internal.Get()
	if err != nil || expired || data == nil {
		return err
	}

	delete(data.Entries, c.keyWrapper(key))
	return c.internal.Set(data)
}

func normalizedTerm(term string) string {
	return strings.ToLower(strings.Join(strings.Fields(term), " "))
}
