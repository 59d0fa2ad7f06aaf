package repository

import (
	"time"
)

// CacheRepository defines the cache operations the session denylist
// needs: put a key with a TTL and ask whether it is still there.
type CacheRepository interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Exists(key string) (bool, error)
}
