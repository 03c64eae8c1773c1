// Package domain contains the core entities of wallet wrapped: wallet
// addresses, card data, media, cards, collections and archived decks.
//
// Everything in this package is pure. Persistence, AI calls and transport live
// elsewhere and depend on these types, never the other way around.
package domain
