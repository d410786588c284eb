package ali

import (
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// cacheEntry is the msgpack-encoded shape of one .alic file: the
// parsed File plus the mtime of the .ali it was derived from, so a
// reader can tell a stale cache from a current one without re-parsing
// the ASCII form.
type cacheEntry struct {
	SourceMTime int64
	File        *File
}

// ReadCached loads the .alic cache file at alicPath if present and not
// stale relative to aliMTime, returning (file, true) on a cache hit. A missing or stale
// cache returns (nil, false) rather than an error: the caller falls
// back to Read on the ASCII .ali.
func ReadCached(alicPath string, aliMTime int64) (*File, bool) {
	data, err := os.ReadFile(alicPath)
	if err != nil {
		return nil, false
	}
	var entry cacheEntry
	if err := msgpack.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	if entry.SourceMTime != aliMTime {
		return nil, false
	}
	return entry.File, true
}

// WriteCached writes f's msgpack-encoded cache companion to alicPath,
// tagging it with the .ali's mtime for ReadCached's staleness check.
func WriteCached(alicPath string, f *File, aliMTime int64) error {
	data, err := msgpack.Marshal(&cacheEntry{SourceMTime: aliMTime, File: f})
	if err != nil {
		return err
	}
	return os.WriteFile(alicPath, data, 0o644)
}
