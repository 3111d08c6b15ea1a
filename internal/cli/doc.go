// Package cli defines the Cobra command tree for the kcp CLI. Each file in
// this package registers one top-level command (validate, list, serve, etc.)
// with the root command. Command implementations delegate to internal
// packages for the actual parsing, validation, and serving, and only handle
// flag parsing, I/O formatting, and exit behavior.
package cli
