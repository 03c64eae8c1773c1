// Package memory provides in-process backends for local development and
// tests: a TTL Cache on patrickmn/go-cache and a map-backed ObjectStore that
// also serves as a media Uploader. Nothing survives a restart.
package memory
