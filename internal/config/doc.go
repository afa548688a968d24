// Package config loads undoctx configuration files.
//
// Files are TOML or YAML, selected by extension. A configuration names the
// coordinator mode, the logging level and the topology to build:
//
//	mode = "tree"
//	log_level = "debug"
//
//	[[nodes]]
//	label = "root"
//
//	[[nodes]]
//	label = "sidebar"
//	parent = "root"
//
// Environment variables UNDOCTX_MODE, UNDOCTX_LOG_LEVEL and
// UNDOCTX_STRICT_OWNER override file values.
package config
