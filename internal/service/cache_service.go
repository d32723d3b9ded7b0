package service

import (
	"strings"
	"sync"
	"time"
)

// CacheService - кэш в памяти с TTL. Используется для одноразовых
// login-challenge и отозванных refresh токенов.
type CacheService struct {
	mu    sync.RWMutex
	cache map[string]*cacheEntry
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

type cacheEntry struct {
	data      interface{}
	expiresAt time.Time
}

func NewCacheService() *CacheService {
	cs := &CacheService{
		cache: make(map[string]*cacheEntry),
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	go cs.cleanup(5 * time.Minute)
	return cs
}

func (cs *CacheService) Get(key string) (interface{}, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	entry, exists := cs.cache[key]
	if !exists || cs.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.data, true
}

func (cs *CacheService) Set(key string, value interface{}, ttl time.Duration) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.cache[key] = &cacheEntry{
		data:      value,
		expiresAt: cs.now().Add(ttl),
	}
}

// Take возвращает значение и удаляет ключ одной операцией.
func (cs *CacheService) Take(key string) (interface{}, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	entry, exists := cs.cache[key]
	if !exists {
		return nil, false
	}
	delete(cs.cache, key)
	if cs.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.data, true
}

func (cs *CacheService) Delete(key string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	delete(cs.cache, key)
}

// SetIfAbsent атомарно записывает значение, если живого ключа нет.
// Возвращает false, если ключ уже занят.
func (cs *CacheService) SetIfAbsent(key string, value interface{}, ttl time.Duration) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	now := cs.now()
	if entry, exists := cs.cache[key]; exists && !now.After(entry.expiresAt) {
		return false
	}
	cs.cache[key] = &cacheEntry{data: value, expiresAt: now.Add(ttl)}
	return true
}

// Close останавливает фоновую очистку.
func (cs *CacheService) Close() {
	cs.once.Do(func() { close(cs.stop) })
}

func (cs *CacheService) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-cs.stop:
			return
		case <-ticker.C:
			cs.purge()
		}
	}
}

func (cs *CacheService) purge() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	now := cs.now()
	for key, entry := range cs.cache {
		if now.After(entry.expiresAt) {
			delete(cs.cache, key)
		}
	}
}

func ChallengeCacheKey(addr string) string {
	return "auth:challenge:" + strings.ToLower(addr)
}

func RevokedTokenCacheKey(jti string) string {
	return "auth:revoked:" + jti
}
