// Package modelcache manages the speech engine's model download
// directory.
//
// The engine caches downloaded models under a single root (by default
// ~/.cache/whisper) and happily re-downloads anything that goes
// missing, so every operation here treats the cache as disposable.
// Entries can be bare checkpoint files or per-model directories; both
// are sized recursively. Destructive operations take a file lock next
// to the root so concurrent cleanups cannot race each other or a
// running download.
package modelcache
