package constants

import "time"

const (
	DataFormate  = "2006-01-02 15:04:05"
	DefaultLimit = 20
	MaxLimit     = 100

	IdentityKey  = "user_id"
	JWTRealm     = "viewtube"
	TokenTimeout = 24 * time.Hour
	TokenRefresh = 7 * 24 * time.Hour

	ProfileCacheKeyTemplate = "profile:%d"
	ProfileCacheTTL         = 5 * time.Minute
	ReconcileLockKey        = "lock:engagement:reconcile"
	ReconcileBatchSize      = 500

	// sentinel 资源名
	EngagementResource = "engagement_write"
	CascadeResource    = "cascade_delete"

	MinPasswordLength  = 6
	MinDeleteKeyLength = 6
	MaxTitleLength     = 200
	MaxCommentLength   = 2000
)
