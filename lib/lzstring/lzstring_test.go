package lzstring

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressToEncodedURIComponent(t *testing.T) {
	for _, test := range []struct {
		in   string
		want string
	}{
		{"", "Q"},
		{"a", "IZA"},
		{"aaaaaaaaaaaaaaaa", "IY1-EA"},
		{"Hello, world", "BIUwNmD2A0AEDukBOYAmQ"},
		{"hello hello hello hello", "BYUwNmD2AEoTcq3FIA"},
		{"안녕하세요", "hKjlVGwaq4HIOCljQ"},
		{"abcabcabcabcabcabc", "IYIwxqHpPkA"},
		{"😀x", "rwbgA9geQ"},
	} {
		got := CompressToEncodedURIComponent(test.in)
		assert.Equal(t, test.want, got, test.in)
		back, err := DecompressFromEncodedURIComponent(got)
		require.NoError(t, err, test.in)
		assert.Equal(t, test.in, back, test.in)
	}
}

func TestRoundTrip(t *testing.T) {
	fingerprint := `{"a":"1b6c4ba1-0b0e-4d4a-bd54-9dbb1d5d3e0c-4","b":"1.3.4","d":[{"i":"id","b":{"a":["0","naverid"]},"d":"naverid","e":"false","f":"false"},{"i":"pw","e":"true","f":"false"}],"h":"1f","i":{"a":"Mozilla/5.0"}}`
	for _, in := range []string{
		fingerprint,
		strings.Repeat(fingerprint, 10),
		strings.Repeat("ab", 1000),
		"\x00\x01\x02\xff",
		"mixed ascii 한글 and emoji 🎉🎉🎉 tail",
	} {
		out := CompressToEncodedURIComponent(in)
		for _, c := range out {
			assert.True(t, strings.ContainsRune(uriAlphabet, c), "unexpected %q in output", c)
		}
		back, err := DecompressFromEncodedURIComponent(out)
		require.NoError(t, err)
		assert.Equal(t, in, back)
	}
}

func TestDecompressSpaceIsPlus(t *testing.T) {
	out := CompressToEncodedURIComponent("aaaaaaaaaaaaaaaa")
	require.Contains(t, out, "-")
	in := "a a a a a a a a a a a a a a a a a a a a a a"
	out = CompressToEncodedURIComponent(in)
	back, err := DecompressFromEncodedURIComponent(strings.Replace(out, "+", " ", -1))
	require.NoError(t, err)
	assert.Equal(t, in, back)
}

func TestDecompressErrors(t *testing.T) {
	_, err := DecompressFromEncodedURIComponent("")
	assert.Equal(t, ErrCorrupt, err)

	_, err = DecompressFromEncodedURIComponent("IZ=")
	require.Error(t, err)
	assert.Equal(t, ErrCorrupt, errors.Cause(err))
	assert.Contains(t, err.Error(), `invalid character '='`)

	// Truncating a long stream loses the end marker
	out := CompressToEncodedURIComponent(strings.Repeat("hello world ", 20))
	_, err = DecompressFromEncodedURIComponent(out[:len(out)/2])
	assert.Equal(t, ErrCorrupt, err)
}
