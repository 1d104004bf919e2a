package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/ppiankov/content-test-enforcer/internal/model"
)

// Cache stores parsed notebooks.
// Cached documents are shared between callers and must not be modified.
type Cache interface {
	Get(key string) (*model.Document, bool)
	Set(key string, doc *model.Document, ttl time.Duration)
}

// Key generates a cache key from raw notebook bytes
func Key(content []byte) string {
	hash := sha256.Sum256(content)
	return "ctenforce:v1:" + hex.EncodeToString(hash[:])
}
