// =============================================================================
// e-SUS Parser - Text Normalizer
// =============================================================================
//
// The text normalizer turns the raw export into plain upper-case ASCII before
// any tabular parsing happens:
//
//   1. Compatibility decomposition (NFKD) splits accented letters into a base
//      letter followed by combining marks ("ã" -> "a" + U+0303) and expands
//      compatibility forms ("ﬁ" -> "fi").
//   2. Every code point outside ASCII is dropped. This removes the combining
//      marks and any symbol without an ASCII decomposition (e.g. "ß", "º").
//   3. The remainder is upper-cased.
//
// When reading a file, CRLF and lone CR line endings are also rewritten as
// LF, so the artifact always uses "\n" between lines.
//
// The input must be valid UTF-8; anything else is reported as a decoding
// failure rather than silently mangled.
//
// =============================================================================

package textnorm

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ginjaninja78/esus-parser/internal/types"
)

// ErrInvalidUTF8 is the cause attached to decoding failures.
var ErrInvalidUTF8 = errors.New("content is not valid UTF-8")

// asciiOnly decomposes and keeps only ASCII code points.
var asciiOnly = runes.Remove(runes.Predicate(func(r rune) bool {
	return r > unicode.MaxASCII
}))

// newlines rewrites CRLF and CR line endings as LF.
var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// NormalizeString strips accents and non-ASCII code points from s and
// upper-cases the result. s is assumed to be valid UTF-8; invalid bytes are
// dropped like any other non-ASCII input.
func NormalizeString(s string) string {
	t := transform.Chain(norm.NFKD, asciiOnly)
	result, _, err := transform.String(t, s)
	if err != nil {
		// The chain never fails on in-memory input; fall back to a rune walk.
		result = stripNonASCII(norm.NFKD.String(s))
	}
	return strings.ToUpper(result)
}

// NormalizeBytes validates data as UTF-8, unifies its line endings and
// normalizes it.
func NormalizeBytes(data []byte) (string, error) {
	if !utf8.Valid(data) {
		offset := invalidOffset(data)
		return "", fmt.Errorf("%w (first invalid byte at offset %d)", ErrInvalidUTF8, offset)
	}
	return NormalizeString(newlines.Replace(string(data))), nil
}

// NormalizeFile reads the whole file at path and normalizes it.
//
// RETURNS:
//   - The normalized text.
//   - A types.ErrIO error if the file cannot be read, or a types.ErrDecode
//     error if its content is not valid UTF-8.
func NormalizeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", types.NewIOError("read", path, err)
	}

	text, err := NormalizeBytes(data)
	if err != nil {
		return "", types.NewDecodeError("decode", path, err)
	}

	return text, nil
}

// WriteArtifact writes normalized text to path as UTF-8.
func WriteArtifact(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return types.NewIOError("write", path, err)
	}
	return nil
}

// stripNonASCII drops every rune above U+007F.
func stripNonASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r <= unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// invalidOffset returns the byte offset of the first invalid UTF-8 sequence.
func invalidOffset(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}
