// Package metadata recovers authoring timestamps from container bytes.
//
// Each parser takes an in-memory buffer, usually the leading portion of a
// file, and returns at most one timestamp. A buffer without a timestamp and a
// truncated or corrupt buffer look the same to the caller: (time.Time{}, false).
// Returned times carry the wall clock written in the file, expressed in UTC.
package metadata
