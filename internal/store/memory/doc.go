// Package memory provides in-process implementations of the job, document
// and article stores. Records are held as JSON so callers never share
// mutable maps with the store.
//
// It backs local development when no DATABASE_URL is configured, and tests.
package memory
