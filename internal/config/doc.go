// Package config loads the mediumdraft configuration.
//
// Settings come from three layers, later ones winning: the built-in
// defaults, an optional TOML or YAML file chosen by extension, and
// MEDIUMDRAFT_* environment variables. The result is validated before use.
//
//	[editor]
//	placeholder = "Tell your story..."
//
//	[code]
//	tab_size = 4
//
//	[image]
//	upload_dir = "/var/lib/mediumdraft/uploads"
//	concurrency = 4
//
//	[log]
//	level = "debug"
//
//	[plugins]
//	lua = ["~/.config/mediumdraft/plugins"]
//	timeout_ms = 500
package config
