package normalise

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestDetectAndDecodeEmpty(t *testing.T) {
	text, charset := DetectAndDecode(nil)
	assert.Equal(t, "", text)
	assert.Equal(t, "utf-8", charset)
}

func TestDetectAndDecodeUTF8(t *testing.T) {
	text, _ := DetectAndDecode([]byte("plain utf-8 text with émoji 🎉"))
	assert.Equal(t, "plain utf-8 text with émoji 🎉", text)
}

func TestDetectAndDecodeNeverReturnsInvalidUTF8(t *testing.T) {
	inputs := [][]byte{
		{0xff, 0xfe, 0xfd},
		{0x80, 0x81, 0x82, 0x83},
		[]byte("caf\xe9"), // latin-1 é
		{0x00, 0x01, 0xc3},
	}
	for _, raw := range inputs {
		text, charset := DetectAndDecode(raw)
		assert.True(t, utf8.ValidString(text), "input % x decoded to invalid UTF-8", raw)
		assert.NotEmpty(t, charset)
	}
}

func TestDetectAndDecodeLatin1(t *testing.T) {
	// Long latin-1 sample so detection has enough signal.
	raw := []byte("Les na\xeffs \xe6githales h\xe2tifs pondant \xe0 No\xebl o\xf9 il g\xe8le")
	text, _ := DetectAndDecode(raw)
	assert.True(t, utf8.ValidString(text))
	assert.NotEmpty(t, text)
}
