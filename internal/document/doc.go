// Package document provides the immutable block document model that every
// other part of the editor operates on.
//
// A Snapshot is an ordered list of block keys over a shared, copy-on-write
// arena of blocks, plus the selection and the entity map. Snapshots are
// never modified after construction; every change goes through Edit, which
// produces a new Snapshot that shares unchanged blocks with its parent.
//
// Basic usage:
//
//	snap := document.FromText("Hello\nWorld")
//	first := snap.FirstBlock()
//
//	next := snap.Edit().
//	    Put(first.WithType(document.HeaderOne)).
//	    Commit(document.ChangeBlockType)
//
//	// snap is unchanged, next holds the heading.
//
// Offsets:
//
// All text offsets (selection offsets, character metadata indices, entity
// ranges) count runes, not bytes.
//
// Thread Safety:
//
// Snapshots and Blocks are immutable and safe for concurrent reads. Only the
// host surface decides which snapshot is current.
package document
