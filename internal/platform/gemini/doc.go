// Package gemini implements generation.AIClient on Google's Gemini API.
//
// Every call asks for a JSON response constrained by a response schema
// converted from generation.Schema. Transient failures are retried with
// exponential backoff and jitter. Safety blocks, malformed responses and
// schema violations are permanent and returned immediately. The decoded
// output goes through generation.DecodeStructured so a model can never hand
// the builder a payload the rest of the pipeline has not validated.
package gemini
