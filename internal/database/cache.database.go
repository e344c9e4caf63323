package database

import (
	"context"
	"fmt"
	"time"

	"smartdry/config"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/valkey-io/valkey-go"
)

// Valkey Database Index Organization
// Each database index provides logical separation for different cache categories
const (
	// GENERAL_CACHE_INDEX (DB 0) - General purpose caching
	GENERAL_CACHE_INDEX = iota

	// SESSION_CACHE_INDEX (DB 1) - Session and auth-related temporary data
	SESSION_CACHE_INDEX

	// DEVICE_CACHE_INDEX (DB 2) - Live device state
	// device:status:<deviceId> and device:sensors:<deviceId>
	DEVICE_CACHE_INDEX

	// CYCLE_CACHE_INDEX (DB 3) - Active drying-cycle snapshots
	// drying:active:<cycleId>, removed explicitly on completion
	CYCLE_CACHE_INDEX

	// NOTIFICATION_CACHE_INDEX (DB 4) - Per-user recent-notification lists
	// notifications:<userId>, newest first
	NOTIFICATION_CACHE_INDEX
)

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		return log.Errorf("failed to initialize cache database", "address or port is empty")
	}

	var cacheDB Cache

	clients := []struct {
		target *CacheClient
		index  int
		name   string
	}{
		{&cacheDB.General, GENERAL_CACHE_INDEX, "general"},
		{&cacheDB.Session, SESSION_CACHE_INDEX, "session"},
		{&cacheDB.Device, DEVICE_CACHE_INDEX, "device"},
		{&cacheDB.Cycle, CYCLE_CACHE_INDEX, "cycle"},
		{&cacheDB.Notification, NOTIFICATION_CACHE_INDEX, "notification"},
	}

	for _, c := range clients {
		client, err := valkey.NewClient(
			valkey.ClientOption{
				InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
				SelectDB:    c.index,
			},
		)
		if err != nil {
			return log.Err("failed to create valkey client", err, "cache", c.name)
		}
		*c.target = client
	}

	s.Cache = cacheDB

	if config.DatabaseCacheReset != -1 {
		go clearCacheDB(config.DatabaseCacheReset, cacheDB)
	}

	return nil
}

func clearCacheDB(index int, cacheDB Cache) {
	log := logger.New("database").File("cache.database").Function("clearCacheDB")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var client CacheClient
	var dbName string

	switch index {
	case GENERAL_CACHE_INDEX:
		client = cacheDB.General
		dbName = "General"
	case SESSION_CACHE_INDEX:
		client = cacheDB.Session
		dbName = "Session"
	case DEVICE_CACHE_INDEX:
		client = cacheDB.Device
		dbName = "Device"
	case CYCLE_CACHE_INDEX:
		client = cacheDB.Cycle
		dbName = "Cycle"
	case NOTIFICATION_CACHE_INDEX:
		client = cacheDB.Notification
		dbName = "Notification"
	default:
		log.Warn("Invalid cache database index", "index", index)
		return
	}

	if err := client.Do(ctx, client.B().Flushdb().Build()).Error(); err != nil {
		log.Er("Failed to clear cache database", err, "index", index, "dbName", dbName)
		return
	}

	log.Info("Successfully cleared cache database", "index", index, "dbName", dbName)
}
