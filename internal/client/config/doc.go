// Package config loads runtime configuration for the passvault CLI.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (--config or $PASSVAULT_CONFIG).
//  3. Environment variables with the PASSVAULT_ prefix.
//  4. Command-line flags, applied by the cobra root command.
//
// # JSON schema
//
// Durations accept strings like "15s" or integer nanoseconds:
//
//	{
//	  "server_url": "https://vault.example.com",
//	  "profile_path": "/home/me/.passvault/default.db",
//	  "clipboard_delay": "15s",
//	  "request_timeout": "10s"
//	}
package config
