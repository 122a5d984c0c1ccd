package normalise

import (
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/ianaindex"
)

// DetectAndDecode converts raw bytes of unknown encoding into a valid
// UTF-8 string and reports the charset it decoded from.
//
// It never fails: undetectable input is treated as UTF-8 and invalid
// byte sequences are replaced rather than rejected. Empty input yields
// an empty string and "utf-8".
func DetectAndDecode(raw []byte) (string, string) {
	if len(raw) == 0 {
		return "", "utf-8"
	}

	charset := detectCharset(raw)
	if decoded, ok := decodeAs(raw, charset); ok {
		return decoded, strings.ToLower(charset)
	}

	// Unknown or broken charset: keep the bytes, repair invalid UTF-8.
	return strings.ToValidUTF8(string(raw), "�"), "utf-8"
}

// detectCharset runs statistical detection over the raw bytes.
func detectCharset(raw []byte) string {
	result, err := chardet.NewTextDetector().DetectBest(raw)
	if err != nil || result == nil || result.Charset == "" {
		return "UTF-8"
	}
	return result.Charset
}

// decodeAs decodes raw with the named IANA charset. Decoders replace
// unmappable bytes, so a false return means the charset itself was
// unknown rather than the content being malformed.
func decodeAs(raw []byte, charset string) (string, bool) {
	if isUTF8Name(charset) {
		return strings.ToValidUTF8(string(raw), "�"), true
	}

	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil || enc == nil {
		return "", false
	}

	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", false
	}
	return strings.ToValidUTF8(string(decoded), "�"), true
}

func isUTF8Name(charset string) bool {
	switch strings.ToLower(charset) {
	case "utf-8", "utf8", "ascii", "us-ascii":
		return true
	}
	return false
}
