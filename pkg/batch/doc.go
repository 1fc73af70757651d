// Package batch drives a worker over a slice of items in chunks.
//
// Run is cooperative and sequential: one item is processed at a time, and
// before every chunk and every item it checks for cancellation and then waits
// while a PauseToken is paused. Results stay aligned with the input slice
// whatever order the items are processed in. Worker failures are handled
// according to the ErrorMode; cancellation is reported as ErrCanceled so it
// can be told apart from an *ItemError.
package batch
