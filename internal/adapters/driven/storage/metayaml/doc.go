// Package metayaml reads and writes the rosbag2 metadata.yaml
// descriptor. Both storage backends share it: readers use it to
// resolve a bag's time range without opening segments, writers use it
// to finalize a freshly written bag.
package metayaml
