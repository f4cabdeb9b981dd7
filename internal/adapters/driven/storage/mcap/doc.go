// Package mcap implements the mcap bag storage family (*.mcap).
//
// It wraps the foxglove mcap library. A bag may span several mcap
// files; readers merge their metadata and stream them in recording
// order, writers rotate to a new file when the size cap is reached.
package mcap
