package normalise

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// FragmentID derives the deterministic content-addressed identifier for
// a fragment: "frag-" followed by the first 12 hex characters of
// SHA-256 over "sourcePath:timestamp:content". The source path keeps
// identical content from different files distinct; equal inputs always
// produce equal IDs, which is what makes vault duplicate detection
// possible.
func FragmentID(sourcePath string, ts time.Time, content string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s:%s", sourcePath, ts.Format(time.RFC3339), content)))
	return "frag-" + hex.EncodeToString(sum[:])[:12]
}
