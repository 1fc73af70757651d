// Package createdat provides best-effort attribution of a media file's creation timestamp.
//
// An Extractor consults the filename detector, the embedded container
// metadata, the filesystem birth time and the modification time in a caller
// supplied priority order. With a Cache every source's answer is kept per
// file, keyed by size and modification time, so a later call under a
// different order is answered without reading the file again.
package createdat
