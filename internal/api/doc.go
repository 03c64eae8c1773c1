// Package api handles incoming HTTP requests for wrapped decks: routing,
// request validation and response formatting. Handlers are thin adapters over
// the service package and map its errors to status codes and safe error kinds.
package api
