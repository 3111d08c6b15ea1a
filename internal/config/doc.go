// Package config manages user-level settings stored at ~/.kcp/config.yaml,
// such as the default manifest path used when a command is run without an
// argument. Values can be overridden through KCP_-prefixed environment
// variables.
package config
