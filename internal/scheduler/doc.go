// Package scheduler turns a platform posting window into a concrete timestamp.
//
// A Window is a daily local range [Start, End] in minutes of day plus a zone.
// Assigner draws a uniformly random minute in the range, applies a +/-7 minute
// jitter and clamps the result back into the range. Avoid nudges a proposed
// timestamp forward by 7 minutes when it lands on an already scheduled minute,
// never past the end of the window. Avoid is a single step: it does not search
// for a free slot, so repeated collisions can still produce duplicates.
package scheduler
