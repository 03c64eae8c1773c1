// Package gcs stores archived decks and generated media in a Google Cloud
// Storage bucket. Deck objects are written with a does-not-exist precondition
// so snapshots are never overwritten.
package gcs
