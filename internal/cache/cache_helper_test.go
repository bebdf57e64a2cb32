package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestHelper(t *testing.T, prefix string) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheHelper(client, prefix), server
}

func TestSetAndGet(t *testing.T) {
	helper, _ := newTestHelper(t, "stats:")
	ctx := context.Background()

	type payload struct {
		Count int64 `json:"count"`
	}

	if err := helper.Set(ctx, "totals", payload{Count: 42}, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var got payload
	if err := helper.Get(ctx, "totals", &got); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Count != 42 {
		t.Errorf("Count = %d, want 42", got.Count)
	}
}

func TestGetMissingKey(t *testing.T) {
	helper, _ := newTestHelper(t, "stats:")

	var dest map[string]any
	if err := helper.Get(context.Background(), "absent", &dest); err != ErrCacheNotFound {
		t.Errorf("Get() error = %v, want ErrCacheNotFound", err)
	}
}

func TestNilClientDegradesGracefully(t *testing.T) {
	helper := NewCacheHelper(nil, "stats:")
	ctx := context.Background()

	if err := helper.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Errorf("Set() with nil client error = %v, want nil", err)
	}

	var dest string
	if err := helper.Get(ctx, "k", &dest); err != ErrCacheNotAvailable {
		t.Errorf("Get() with nil client error = %v, want ErrCacheNotAvailable", err)
	}

	// CacheOrExecute must still compute the value.
	calls := 0
	err := helper.CacheOrExecute(ctx, "k", &dest, time.Minute, func() (interface{}, error) {
		calls++
		return "computed", nil
	})
	if err != nil {
		t.Fatalf("CacheOrExecute() error = %v", err)
	}
	if dest != "computed" || calls != 1 {
		t.Errorf("dest = %q, calls = %d", dest, calls)
	}
}

func TestCacheOrExecuteServesFromCache(t *testing.T) {
	helper, _ := newTestHelper(t, "stats:")
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return map[string]int64{"total": 5}, nil
	}

	var first map[string]int64
	if err := helper.CacheOrExecute(ctx, "totals", &first, time.Minute, fetch); err != nil {
		t.Fatalf("first CacheOrExecute() error = %v", err)
	}

	var second map[string]int64
	if err := helper.CacheOrExecute(ctx, "totals", &second, time.Minute, fetch); err != nil {
		t.Fatalf("second CacheOrExecute() error = %v", err)
	}

	if calls != 1 {
		t.Errorf("fetch calls = %d, want 1", calls)
	}
	if second["total"] != 5 {
		t.Errorf("cached value = %v, want 5", second["total"])
	}
}

func TestInvalidatePattern(t *testing.T) {
	helper, _ := newTestHelper(t, "stats:")
	ctx := context.Background()

	for _, key := range []string{"dashboard:branch:1", "dashboard:branch:2", "other"} {
		if err := helper.Set(ctx, key, 1, time.Minute); err != nil {
			t.Fatalf("Set(%s) error = %v", key, err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "dashboard:branch:*"); err != nil {
		t.Fatalf("InvalidatePattern() error = %v", err)
	}

	var dest int
	if err := helper.Get(ctx, "dashboard:branch:1", &dest); err != ErrCacheNotFound {
		t.Errorf("branch key survived invalidation: %v", err)
	}
	if err := helper.Get(ctx, "other", &dest); err != nil {
		t.Errorf("unrelated key was dropped: %v", err)
	}
}

func TestCacheManagerDefaults(t *testing.T) {
	manager := NewCacheManager(nil)
	if manager.Stats == nil || manager.Settings == nil || manager.Fast == nil {
		t.Fatal("nil client must still yield usable helpers")
	}
	if err := manager.HealthCheck(context.Background()); err != ErrCacheNotAvailable {
		t.Errorf("HealthCheck() = %v, want ErrCacheNotAvailable", err)
	}
}
