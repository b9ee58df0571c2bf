// utils/utils.go
package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

// HashFile calculates the SHA-256 hash of a file's raw contents.
func HashFile(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return HashBytes(content), nil
}

// HashBytes calculates the SHA-256 hash of the given data.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// CommitHash derives a commit identifier from the author, message and
// timestamp of the commit. File contents do not participate, matching the
// on-disk format of existing repositories.
func CommitHash(author, message, timestamp string) string {
	return HashBytes([]byte(author + message + timestamp))
}
