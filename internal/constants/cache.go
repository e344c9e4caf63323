package constants

import "time"

// Cache key prefixes, namespaced by purpose. CacheBuilder composes the final
// key as "<prefix><id>".
const (
	UserCachePrefix          = "user:"
	OIDCMappingCachePrefix   = "oidc:"
	DeviceStatusCachePrefix  = "device:status:"
	DeviceSensorCachePrefix  = "device:sensors:"
	ActiveCycleCachePrefix   = "drying:active:"
	NotificationsCachePrefix = "notifications:"
)

const (
	UserCacheExpiry         = 7 * 24 * time.Hour
	DeviceStatusCacheExpiry = time.Hour
	DeviceSensorCacheExpiry = 5 * time.Minute

	// Active cycle snapshots carry no drying-duration TTL; they are removed
	// explicitly on completion and swept when orphaned.
	ActiveCycleCacheExpiry = 0

	// Recent-notification lists are truncated on read, not on write.
	RecentNotificationCount = 5
)

// Listing page sizes.
const (
	DefaultSensorReadingLimit = 50
	MaxSensorReadingLimit     = 500
	DefaultNotificationLimit  = 50
)
