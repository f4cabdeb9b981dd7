// Package sqlite implements the sqlite3 bag storage family (*.db3).
//
// Each segment is a database with the rosbag2 schema: a topics table
// holding per-topic schema metadata and a messages table holding
// (topic_id, timestamp, data) rows. Readers stream messages in
// timestamp order; writers rotate to a new segment database when the
// size cap is reached.
package sqlite
