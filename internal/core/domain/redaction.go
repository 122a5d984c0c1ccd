package domain

// RedactionMatch records a sensitive-data hit without retaining the
// matched text. Only a salted hash of the match is stored, so neither
// in-memory results nor serialised logs can leak the secret.
type RedactionMatch struct {
	// FilePath is the file the match was found in.
	FilePath string `json:"file_path"`

	// LineNumber is the 1-based line of the match.
	LineNumber int `json:"line_number"`

	// MatchType is the name of the pattern that matched
	// (api_key, password, ssn, email, or a custom pattern name).
	MatchType string `json:"match_type"`

	// SaltedHash is hex(sha256(salt || matched_text)). The salt is
	// generated per scan session, so hashes are comparable within a
	// session but not across sessions.
	SaltedHash string `json:"salted_hash"`
}
