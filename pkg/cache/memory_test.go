package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/traveleasy/gate/core"
)

func newSession(id string) *core.Session {
	return &core.Session{
		ID:        id,
		AccountID: "account-" + id,
		TokenHash: "hash-" + id,
		CreatedAt: time.Now(),
	}
}

// fakeClock lets tests move time without sleeping.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func TestNewInMemoryCache_Defaults(t *testing.T) {
	c := NewInMemoryCache(core.CacheConfig{})

	stats := c.Stats()
	if stats.TTL != DefaultTTL {
		t.Errorf("TTL = %v, want %v", stats.TTL, DefaultTTL)
	}
	if c.maxSize != DefaultMaxSize {
		t.Errorf("maxSize = %d, want %d", c.maxSize, DefaultMaxSize)
	}
}

func TestInMemoryCache_SetGet(t *testing.T) {
	// Arrange
	c := NewInMemoryCache(core.CacheConfig{TTL: time.Minute, MaxSize: 10})
	s := newSession("1")

	// Act
	if err := c.Set(s.TokenHash, s); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := c.Get(s.TokenHash)

	// Assert
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ID != s.ID || got.AccountID != s.AccountID {
		t.Errorf("Get() = %+v, want %+v", got, s)
	}
	if got == s {
		t.Error("Get() should return a copy, not the stored pointer")
	}
}

func TestInMemoryCache_Get_Miss(t *testing.T) {
	c := NewInMemoryCache(core.CacheConfig{})

	if _, err := c.Get("missing"); err != core.ErrCacheNotFound {
		t.Errorf("Get() error = %v, want ErrCacheNotFound", err)
	}
	if c.Stats().Misses != 1 {
		t.Errorf("Misses = %d, want 1", c.Stats().Misses)
	}
}

func TestInMemoryCache_Get_ExpiresAfterTTL(t *testing.T) {
	// Arrange
	clock := &fakeClock{t: time.Now()}
	c := NewInMemoryCache(core.CacheConfig{TTL: time.Minute})
	c.now = clock.Now
	s := newSession("1")
	_ = c.Set(s.TokenHash, s)

	// Act
	clock.Advance(2 * time.Minute)
	_, err := c.Get(s.TokenHash)

	// Assert
	if err != core.ErrCacheNotFound {
		t.Errorf("Get() error = %v, want ErrCacheNotFound", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want expired entry removed", c.Len())
	}
}

func TestInMemoryCache_Delete(t *testing.T) {
	tests := []struct {
		name        string
		seed        bool
		wantDeletes int64
	}{
		{name: "existing entry", seed: true, wantDeletes: 1},
		{name: "missing entry is not an error", seed: false, wantDeletes: 0},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			c := NewInMemoryCache(core.CacheConfig{})
			s := newSession("1")
			if test.seed {
				_ = c.Set(s.TokenHash, s)
			}

			// Act
			err := c.Delete(s.TokenHash)

			// Assert
			if err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := c.Get(s.TokenHash); err != core.ErrCacheNotFound {
				t.Errorf("Get() after Delete error = %v, want ErrCacheNotFound", err)
			}
			if got := c.Stats().Deletes; got != test.wantDeletes {
				t.Errorf("Deletes = %d, want %d", got, test.wantDeletes)
			}
		})
	}
}

func TestInMemoryCache_EvictsOldestWhenFull(t *testing.T) {
	// Arrange
	clock := &fakeClock{t: time.Now()}
	c := NewInMemoryCache(core.CacheConfig{MaxSize: 3})
	c.now = clock.Now
	for i := 0; i < 3; i++ {
		s := newSession(fmt.Sprint(i))
		_ = c.Set(s.TokenHash, s)
		clock.Advance(time.Second)
	}

	// Act
	s := newSession("3")
	_ = c.Set(s.TokenHash, s)

	// Assert
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
	if _, err := c.Get("hash-0"); err != core.ErrCacheNotFound {
		t.Error("oldest entry should have been evicted")
	}
	if _, err := c.Get("hash-3"); err != nil {
		t.Errorf("newest entry missing: %v", err)
	}
	if c.Stats().Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", c.Stats().Evictions)
	}
}

func TestInMemoryCache_OverwriteDoesNotEvict(t *testing.T) {
	c := NewInMemoryCache(core.CacheConfig{MaxSize: 1})
	s := newSession("1")

	_ = c.Set(s.TokenHash, s)
	_ = c.Set(s.TokenHash, s)

	if c.Stats().Evictions != 0 {
		t.Errorf("Evictions = %d, want 0", c.Stats().Evictions)
	}
}

func TestInMemoryCache_ConcurrentAccess(t *testing.T) {
	c := NewInMemoryCache(core.CacheConfig{MaxSize: 50})
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s := newSession(fmt.Sprintf("%d-%d", i, j))
				_ = c.Set(s.TokenHash, s)
				_, _ = c.Get(s.TokenHash)
				if j%3 == 0 {
					_ = c.Delete(s.TokenHash)
				}
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 50 {
		t.Errorf("Len() = %d, exceeds MaxSize", c.Len())
	}
}
