// Package pool implements a hierarchical arena allocator with scoped
// cleanup, the memory and resource management substrate used by a
// long-running server to bound the lifetime of request-scoped work.
//
// All request memory and every acquired resource — files, directories,
// sockets, compiled regular expressions, subprocesses — are bound to a
// Pool, a node in a tree of arenas. Clearing or destroying a Pool
// reclaims every byte it owns and runs every cleanup registered on it
// in one operation, which makes per-request leaks structurally
// difficult: there is no per-allocation free to forget.
//
// A Pool is single-owner: concurrent calls against the same Pool, or
// against any of its ancestors or descendants, are not safe without
// external synchronization. Only the package-wide block free list and
// the subprocess spawn window are protected by their own mutexes, so
// that many independent Pool trees — one per in-flight request, say —
// can be created and destroyed concurrently from different goroutines.
package pool
