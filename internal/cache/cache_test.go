package cache

import (
	"testing"
	"time"
)

func TestCacheKey_Distinct(t *testing.T) {
	a := CacheKey("model-a", "prompt")
	b := CacheKey("model-b", "prompt")
	c := CacheKey("model-a", "other prompt")

	if a == b || a == c {
		t.Errorf("keys collide: %s %s %s", a, b, c)
	}
	if a != CacheKey("model-a", "prompt") {
		t.Error("key is not deterministic")
	}
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if err := c.Set("key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, found := c.Get("key")
	if !found || string(val) != "value" {
		t.Errorf("Get = %q, %v", val, found)
	}

	if _, found := c.Get("absent"); found {
		t.Error("Get returned a value for an absent key")
	}
}

func TestDiskCache_SetGet(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	key := CacheKey("model", "prompt")
	if err := c.Set(key, []byte("response"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, found := c.Get(key)
	if !found || string(val) != "response" {
		t.Errorf("Get = %q, %v", val, found)
	}
}

func TestDiskCache_Expiration(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	key := CacheKey("model", "prompt")
	if err := c.Set(key, []byte("response"), -time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, found := c.Get(key); found {
		t.Error("expired entry served from cache")
	}
}

func TestLayeredCache_DiskPromotion(t *testing.T) {
	dir := t.TempDir()

	// Seed the disk layer directly
	disk := NewDiskCache(dir, time.Minute)
	key := CacheKey("model", "prompt")
	if err := disk.Set(key, []byte("from disk"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	layered := NewLayeredCache(time.Minute, dir, time.Minute)
	val, found := layered.Get(key)
	if !found || string(val) != "from disk" {
		t.Errorf("Get = %q, %v", val, found)
	}
}
