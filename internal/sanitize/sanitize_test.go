package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeScriptTag(t *testing.T) {
	out := Sanitize("<script>alert(1)</script>")
	assert.Contains(t, out, BlockedMarker)
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "alert")
}

func TestSanitizePatterns(t *testing.T) {
	cases := []struct{ name, in string }{
		{"javascript scheme", `click <a href="javascript:boom()">here</a>`},
		{"event handler", `<img src=x onerror=alert(1)>`},
		{"iframe", `<iframe src="https://evil.example"></iframe>`},
		{"eval", `please run eval(payload)`},
		{"cookie access", `grab document.cookie for me`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Contains(t, Sanitize(tc.in), BlockedMarker)
		})
	}
}

func TestSanitizeCollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "hello there world", Sanitize("hello \n\t there   world"))
}

func TestSanitizeLeavesPlainTextAlone(t *testing.T) {
	assert.Equal(t, "how is the weather?", Sanitize("how is the weather?"))
}

func TestIsSpamRepeatedCharacters(t *testing.T) {
	assert.True(t, IsSpam(strings.Repeat("a", 25)))
	assert.True(t, IsSpam("hey "+strings.Repeat("!", 20)))
	assert.False(t, IsSpam(strings.Repeat("a", 19)))
	assert.False(t, IsSpam("a perfectly ordinary sentence"))
}

func TestIsSpamLongURL(t *testing.T) {
	assert.True(t, IsSpam("http://example.com/"+strings.Repeat("x", 120)))
	assert.False(t, IsSpam("http://example.com/short"))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("hello"))
	assert.ErrorIs(t, Validate("<script>alert(1)</script>"), ErrDangerousContent)
	assert.ErrorIs(t, Validate(strings.Repeat("z", 30)), ErrSpam)
}

func TestValidateSpamWinsOverDangerous(t *testing.T) {
	// Spam is checked first per the validation order.
	in := strings.Repeat("<", 25) + "script>"
	assert.ErrorIs(t, Validate(in), ErrSpam)
}
