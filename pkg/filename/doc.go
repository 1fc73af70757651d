// Package filename infers capture timestamps from free-form file names.
//
// Detection is heuristic. A single pass splits the name into digit runs;
// specialised scanners (ISO date-times, month names, "14h30" clock times)
// claim byte ranges first, then separated groups ("01-02-2023") and compact
// runs ("20240815", "092345", Unix epochs) are classified by length.
// Identifier-like ranges such as GUIDs, hashes, versions and resolutions are
// suppressed, dates are merged with the clock that follows them, and every
// survivor is scored and ranked.
//
// A name without a recognisable date yields no candidates; that is not an
// error.
package filename
