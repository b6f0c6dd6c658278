// Package config loads the portscout server configuration.
//
// Two on-disk formats are supported, selected by file extension:
// YAML (.yaml/.yml) and JSON with comments (.json/.jsonc, comments and
// trailing commas stripped via github.com/tidwall/jsonc before parsing).
// All fields have defaults, so running without a config file works.
package config
