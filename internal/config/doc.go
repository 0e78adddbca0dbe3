// Package config loads, normalizes, and validates LUSID tool configuration.
//
// Settings live in a TOML file with one section per subsystem: parser,
// converter, store and logging. A missing file is not an error; Load then
// returns Default(). Obtain settings through this package so callers see
// canonical policy names and a resolved store path.
package config
