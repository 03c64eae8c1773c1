// Package config loads, parses and validates configuration from environment
// variables (prefix WRAPPED_) and an optional YAML file. It provides typed
// access to settings for the server, the AI and image providers, the
// collection cache, the deck archive and async generation.
package config
