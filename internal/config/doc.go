// Package config loads the optional flashnote TOML configuration file.
//
// The file lives at ~/.config/flashnote/config.toml unless --config points
// elsewhere. Every field is optional:
//
//	storage = "~/.config/flashnote/flashnote.db"   # or postgres://user@host/db
//	debug = false
//	poll_interval_seconds = 2
//	sender = "tray"                                 # or "log"
//
// A missing file is not an error. An unparsable file is, and the error
// mentions "parse config". Command-line flags override file values.
package config
