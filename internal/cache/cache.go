// Package cache provides TTL caching for verification results and
// fetched pages.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a simple TTL key-value cache.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Delete(key string)
	Clear()
}

// Key derives a stable cache key from an arbitrary string such as a URL.
func Key(s string) string {
	sum := sha256.Sum256([]byte(s))
	return "athena:v1:" + hex.EncodeToString(sum[:])
}
