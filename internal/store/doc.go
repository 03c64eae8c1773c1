// Package store holds the two persistence components of a wrapped deck:
// the CollectionStore, a TTL cache of each address's latest cards merged by
// kind, and the DeckArchive, an append-only archive of timestamped deck
// snapshots.
//
// Both sit on small backend interfaces (Cache and ObjectStore) implemented
// under internal/platform: Redis and go-cache for the cache, GCS, Postgres and
// memory for objects.
package store
