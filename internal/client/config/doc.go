// Package config loads runtime configuration for the Vignaraja CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "secret_key": "secretKey",
//	  "root": "appData",
//	  "admin_user": "vignaraja",
//	  "admin_hash": "argon2id$<salt>$<key>",
//	  "event_date": "2026-09-14T00:00:00+05:30",
//	  "operation_timeout": "10s",
//	  "token_validity": "15m"
//	}
//
// This package does not read environment variables directly.
package config
