// Package mutator provides pure transformation functions over document
// snapshots.
//
// Every function takes a snapshot and returns a snapshot; inputs are never
// modified. Referencing a block that does not exist where the caller must
// know it exists (the pivot of AddNewBlockAt) is a programmer error and is
// reported as an error. Every other unmet precondition, such as an expanded
// selection where a caret is required, returns the input unchanged, because
// those states are reachable through ordinary input timing.
package mutator
