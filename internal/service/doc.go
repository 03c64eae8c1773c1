// Package service provides the application operations behind the API and the
// CLI: generating a full wrapped deck for an address, generating one card from
// a registered or ad hoc generator, and reading back cached collections and
// archived decks.
//
// The service validates addresses before any generator runs, consults the
// collection cache unless a refresh is forced, archives every freshly built
// deck, and keeps the collection cache in step with what was generated.
// Persistence failures are logged and absorbed so a built deck is always
// returned to the caller.
package service
