// Package postgres implements store.ObjectStore on PostgreSQL so decks can be
// archived in a database instead of a bucket. It connects through the pgx
// database/sql driver and ships its schema as goose migrations embedded in
// the binary.
package postgres
