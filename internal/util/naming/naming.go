package naming

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Suffix returns n random lowercase hex characters, at most 32.
func Suffix(n int) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n > len(id) {
		n = len(id)
	}
	return id[:n]
}

// Pod returns a unique instance name with the given prefix.
func Pod(prefix string) string {
	if prefix == "" {
		return Suffix(8)
	}
	return fmt.Sprintf("%s-%s", prefix, Suffix(8))
}

// ArchiveRoot is the key prefix holding one pod's results.
func ArchiveRoot(prefix, podID string) string {
	return path.Join(prefix, podID)
}

// ArchiveKey is the object key of a results file. rel uses forward slashes.
func ArchiveKey(prefix, podID, rel string) string {
	return path.Join(ArchiveRoot(prefix, podID), rel)
}
