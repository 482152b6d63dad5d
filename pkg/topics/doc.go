// Package topics implements the durable queue of pending standup topics.
//
// A topic is one non-empty line of text. The queue keeps topics unique and
// in insertion order: Pop always returns the topic that has waited longest.
// Append merges a batch into the queue, silently dropping blanks, values
// containing line breaks and values that are already queued.
//
// Two backends implement Store:
//
//   - FileStore keeps one topic per line in a plain text file. Every
//     read-modify-write cycle runs under a per-instance mutex and the file is
//     replaced atomically (write temp file, fsync, rename), so concurrent Pop
//     and Append calls never lose each other's updates and readers never see a
//     half-written queue. A missing file is an empty queue.
//   - RedisStore keeps the queue in a Redis list. Append is a Lua script that
//     checks membership against the list and Pop is a single LPOP, both atomic
//     in Redis, so several processes may share one queue.
//
// I/O failures are reported wrapped in ErrStore; callers are expected to log
// them and carry on.
package topics
