// Package options holds the resolved configuration for a create or restore
// run, once the CLI has parsed flags and arguments into it.
package options

// DefaultBufferSize is the page size and I/O buffer size used when the
// caller doesn't request a specific one, matching the original tool's
// default.
const DefaultBufferSize = 4 * 1024 * 1024

// Create is the resolved configuration for a "create" run: diff InFilePath
// against BaseFilePath and write the result to OutFilePath.
type Create struct {
	BufferSize   uint32
	InFilePath   string
	BaseFilePath string
	OutFilePath  string
}

// Restore is the resolved configuration for a "restore" run: apply
// DiffFilePath to OutFilePath in place.
type Restore struct {
	BufferSize   uint32
	DiffFilePath string
	OutFilePath  string
}
