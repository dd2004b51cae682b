package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores fetched page bodies so a retried or re-run batch does not
// hammer the marketplace for pages it already has.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a stable cache key from a page URL.
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "esimprice:v1:" + hex.EncodeToString(hash[:])
}
