// Package task runs deck generation in the background. Jobs are queued in a
// bounded in-memory queue, processed by a fixed worker pool, and tracked by
// ID so clients can poll them through pending, generating, completed and
// failed states.
package task
