package constants

import (
	"fmt"
	"time"
)

// Redis key layout for popupzone
// Pattern: popupzone:{module}:{operation}:{params?}

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "popupzone"
)

// ================== PLACEMENT MODULE ==================

// Approval queue cache keys
const (
	CACHE_KEY_PENDING_QUEUE = CACHE_PREFIX + ":placement:queue:pending" // + :page:X:size:Y
)

// Approval queue TTLs
const (
	TTL_PENDING_QUEUE = 30 * time.Second
)

// ================== LOCKS AND LIMITS ==================

const (
	LOCK_KEY_PREFIX       = CACHE_PREFIX + ":lock:"       // + cell:uuid
	RATE_LIMIT_KEY_PREFIX = CACHE_PREFIX + ":rate_limit:" // + route:client
)

// ================== CACHE INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_PENDING_QUEUE = CACHE_KEY_PENDING_QUEUE + ":*"
)

// ================== HELPER FUNCTIONS ==================

// BuildPendingQueueKey -> "popupzone:placement:queue:pending:page:0:size:20"
func BuildPendingQueueKey(page, size int) string {
	return fmt.Sprintf("%s:page:%d:size:%d", CACHE_KEY_PENDING_QUEUE, page, size)
}
