// Package testutil contains helper builders used across tests to reduce
// boilerplate when constructing stream items (messages, chunks, results).
// They are not intended for production usage.
package testutil
