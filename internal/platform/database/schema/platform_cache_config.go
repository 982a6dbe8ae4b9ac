// Copyright (c) 2026 Danmu. All rights reserved.

package schema

// CacheTable represents 'platform.cache' (component A).
type CacheTable struct {
	Table         string
	CacheKey      string
	CacheProvider string
	CacheValue    string
	ExpiresAt     string
}

var Cache = CacheTable{
	Table:         "platform.cache",
	CacheKey:      "cache_key",
	CacheProvider: "cache_provider",
	CacheValue:    "cache_value",
	ExpiresAt:     "expires_at",
}

// ConfigTable represents 'platform.config' — the persisted, hot-reloadable
// config-key/value store (§6).
type ConfigTable struct {
	Table string
	Key   string
	Value string
}

var Config = ConfigTable{
	Table: "platform.config",
	Key:   "config_key",
	Value: "config_value",
}
