// Package config provides configuration loading, merging, and validation
// facilities for the todo server and its CLI client.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. JSON config file
//  2. Environment variables
//  3. Command-line flags
//
// Zero-valued settings are then filled from package defaults.
//
// The main entry points are [GetStructuredConfig] for server configuration
// and [GetClientConfig] for client-specific configuration.
package config
