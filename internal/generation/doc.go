// Package generation turns declarative generator specs into wrapped cards.
//
// A Spec describes how one card kind is produced: an optional pre-prompt hook
// that enriches the request variables, a data source (a prompt template sent to
// an AI client with a structured-output schema, or custom Go code), and an
// optional media source built the same way. The Builder runs a single spec and
// the Orchestrator fans a set of specs out concurrently while isolating each
// build's failures from its siblings.
//
// External services (the LLM, image models, uploads, SVG sanitizing) are only
// seen through the small interfaces in generator.go; adapters live under
// internal/platform.
package generation
