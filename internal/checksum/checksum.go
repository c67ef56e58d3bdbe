// Package checksum fingerprints document content.
package checksum

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
)

var crlf = []byte("\r\n")

// Document returns the hex-encoded SHA-256 digest of a Markdown document.
// CRLF line endings are folded to LF first, so a checkout on another
// platform yields the same digest.
func Document(data []byte) string {
	if bytes.Contains(data, crlf) {
		data = bytes.ReplaceAll(data, crlf, []byte("\n"))
	}
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
