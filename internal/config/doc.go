// Package config manages user-level settings stored at ~/.extkit/config.yaml.
// Values can be overridden through EXTKIT_-prefixed environment variables.
// It covers the registry location, the API endpoint and token handed to
// extensions, and the log level.
package config
