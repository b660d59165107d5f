package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching generated responses
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey generates a cache key from a model name and the full prompt
// text. Two runs that send the same prompt to the same model hit the same
// entry.
func CacheKey(model, prompt string) string {
	hash := sha256.Sum256([]byte(model + "\x00" + prompt))
	return "fabula:v1:" + hex.EncodeToString(hash[:])
}
