// Package config handles configuration loading for skiff.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	database:
//	  path: "${SKIFF_DB_PATH}"
//
// Syntax: ${VAR_NAME}. Unset variables expand to the empty string.
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	auth:
//	  default_token_ttl: "720h"
//	  max_token_ttl: "8760h"
//
// Supported units: ns, us, ms, s, m, h
//
// # Configuration Sections
//
// Database:
//
//	database:
//	  path: "/var/lib/skiff/skiff.db"
//
// Authentication:
//
//	auth:
//	  bcrypt_cost: 12          # 0 picks the library default
//	  default_token_ttl: "720h"
//	  max_token_ttl: "8760h"
//
// Worker pool:
//
//	workers:
//	  pool_size: 4             # 0 means one worker per CPU
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Validation
//
// Load() validates:
//
//   - Database path presence
//   - Duration format validity and TTL ordering
//   - Non-negative cost and pool size values
//
// # Usage
//
//	cfg, err := config.Load("/etc/skiff/skiff.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
