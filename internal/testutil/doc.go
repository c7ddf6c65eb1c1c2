// Package testutil contains helper builders used across tests to reduce
// boilerplate when constructing workflow trees (nodes, message logs, tool
// calls) by hand. They are not intended for production usage.
package testutil
