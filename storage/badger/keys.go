package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/veridian-labs/corpusit/core"
)

// Key prefixes for different data types
const (
	chunkRecordPrefix = "chkrec"
	chunkSourcePrefix = "chksrc"
)

// makeChunkKey generates a key for a chunk by ID.
func makeChunkKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", chunkRecordPrefix, id))
}

// makeChunkSourceKey generates a composite key for the source index.
// Format: prefix:path\x00id. The NUL separator keeps one path from being a
// prefix of another in iteration order; file paths cannot contain NUL.
func makeChunkSourceKey(sourcePath string, id core.ID) []byte {
	prefix := chunkSourcePrefix + ":"
	buf := make([]byte, len(prefix)+len(sourcePath)+1+8)
	offset := copy(buf, prefix)
	offset += copy(buf[offset:], sourcePath)
	buf[offset] = 0
	offset++
	// BigEndian so lexicographic sort matches numeric order
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialChunkSourceKey generates the prefix of all source index keys for
// a path.
func makePartialChunkSourceKey(sourcePath string) []byte {
	prefix := chunkSourcePrefix + ":"
	buf := make([]byte, len(prefix)+len(sourcePath)+1)
	offset := copy(buf, prefix)
	offset += copy(buf[offset:], sourcePath)
	buf[offset] = 0
	return buf
}

// splitChunkSourceKey recovers the source path from a source index key.
// Returns ok=false if the key is not a source index key.
func splitChunkSourceKey(key []byte) (string, bool) {
	prefix := chunkSourcePrefix + ":"
	if len(key) < len(prefix)+1+8 || string(key[:len(prefix)]) != prefix {
		return "", false
	}
	rest := key[len(prefix) : len(key)-8]
	if len(rest) == 0 || rest[len(rest)-1] != 0 {
		return "", false
	}
	return string(rest[:len(rest)-1]), true
}
