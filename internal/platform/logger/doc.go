// Package logger sets up structured JSON logging with log/slog and carries
// request-scoped loggers through context.Context.
//
// The trace middleware stores a logger enriched with the request's trace ID
// via WithLogger; handlers and services retrieve it with FromContext so every
// line for one request can be correlated.
package logger
