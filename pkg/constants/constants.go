// Package constants provides shared constants used throughout the fleetmap
// codebase. This includes timeouts, file permissions, and the store key
// namespace that must stay consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for requests to the store's HTTP gateway
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultTimeout is the standard timeout for general operations
	DefaultTimeout = 10 * time.Second

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute
)

// Store constants define the key namespace in the key-value store
const (
	// NodeKeyPrefix is the prefix under which all node records live.
	// No other prefix is read or written by fleetmap.
	NodeKeyPrefix = "/gpu/nodes/"
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)
