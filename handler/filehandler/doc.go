// Package filehandler provides the file destination with two mutually
// exclusive rotation triggers: size-based (numbered backup chain
// file.1 .. file.K, oldest discarded) and time-based (timestamp-suffixed
// backups, pruned beyond the retention count).
//
// Rotation is transparent to concurrent writers: writes and rotation
// serialize on one mutex, so a write in progress completes against the
// pre-rotation handle and subsequent writes land in the fresh file.
package filehandler
