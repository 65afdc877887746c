package testutil

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"goclinic/internal/pkg/cache"
)

// ErrCacheDown simula indisponibilidade do Redis.
var ErrCacheDown = errors.New("redis down")

// MemoryCache é um cache.Client em memória para testes.
// TTLs são respeitados contra um relógio interno que o teste avança com Advance.
type MemoryCache struct {
	mu      sync.Mutex
	data    map[string]string
	expires map[string]time.Time
	offset  time.Duration
	Fail    bool
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: map[string]string{}, expires: map[string]time.Time{}}
}

var _ cache.Client = (*MemoryCache)(nil)

// Advance avança o relógio do cache, expirando as chaves vencidas.
func (c *MemoryCache) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset += d
}

func (c *MemoryCache) now() time.Time {
	return time.Now().Add(c.offset)
}

// evict remove a chave se o TTL venceu. Chamado com o lock.
func (c *MemoryCache) evict(key string) {
	if exp, ok := c.expires[key]; ok && !c.now().Before(exp) {
		delete(c.data, key)
		delete(c.expires, key)
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail {
		return "", ErrCacheDown
	}
	c.evict(key)
	v, ok := c.data[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return v, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail {
		return ErrCacheDown
	}
	c.data[key] = fmt.Sprint(value)
	if expiration > 0 {
		c.expires[key] = c.now().Add(expiration)
	} else {
		delete(c.expires, key)
	}
	return nil
}

// IncrWindow replica o SET NX + INCR do Redis: a chave nasce com o TTL da janela.
func (c *MemoryCache) IncrWindow(_ context.Context, key string, window time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail {
		return 0, ErrCacheDown
	}
	c.evict(key)
	if _, ok := c.data[key]; !ok {
		c.data[key] = "0"
		c.expires[key] = c.now().Add(window)
	}
	n, _ := strconv.ParseInt(c.data[key], 10, 64)
	n++
	c.data[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail {
		return ErrCacheDown
	}
	delete(c.data, key)
	delete(c.expires, key)
	return nil
}

// Has indica se a chave está presente e não expirou.
func (c *MemoryCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evict(key)
	_, ok := c.data[key]
	return ok
}

// TTL retorna o tempo restante da chave; zero quando não há expiração.
func (c *MemoryCache) TTL(key string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	exp, ok := c.expires[key]
	if !ok {
		return 0
	}
	return exp.Sub(c.now())
}
