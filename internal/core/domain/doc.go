// Package domain contains the core types of the bag tooling: bags,
// time ranges, overlap windows, topics and messages.
//
// Types here are plain values with no I/O. Storage backends, the CLI
// and terminal rendering live in adapter packages and depend on this
// package, never the other way around.
package domain
