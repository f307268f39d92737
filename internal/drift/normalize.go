// Package drift fingerprints vendor pricing pages and detects when their
// visible text changes between runs.
package drift

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// maxNormalizePasses bounds the fixpoint loop in ExtractVisibleText.
const maxNormalizePasses = 8

var (
	headBlock   = regexp.MustCompile(`(?is)<head(?:\s[^>]*)?>.*?</head\s*>`)
	scriptBlock = regexp.MustCompile(`(?is)<script(?:\s[^>]*)?>.*?</script\s*>`)
	styleBlock  = regexp.MustCompile(`(?is)<style(?:\s[^>]*)?>.*?</style\s*>`)
	svgBlock    = regexp.MustCompile(`(?is)<svg(?:\s[^>]*)?>.*?</svg\s*>`)
	anyTag      = regexp.MustCompile(`<[^>]+>`)
	anyEntity   = regexp.MustCompile(`&#?\w+;`)
	uuidToken   = regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)
	hexToken    = regexp.MustCompile(`(?i)\b[0-9a-f]{8,}\b`)
	isoDateTime = regexp.MustCompile(`\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}\S*`)
	unixStamp   = regexp.MustCompile(`\b\d{10,13}\b`)
	whitespace  = regexp.MustCompile(`[\s\v\x{00a0}\x{feff}\x{2028}\x{2029}\p{Zs}]+`)
)

// entityDecoder decodes the common named entities in sequence, so a
// double-escaped "&amp;lt;" decodes all the way to "<".
var entityDecoder = []struct{ from, to string }{
	{"&amp;", "&"},
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&quot;", `"`},
	{"&#39;", "'"},
	{"&nbsp;", " "},
}

// ExtractVisibleText reduces an HTML document to whitespace-normalized visible
// text with volatile tokens (build hashes, UUIDs, timestamps) removed.
// The reduction is repeated until it reaches a fixpoint, so applying it to
// its own output returns the output unchanged. Entities decoded to '<' and
// '>' are treated as markup on the following pass, so text such as
// "a &lt; b &gt; c" reduces to "a c".
func ExtractVisibleText(html string) string {
	text := html
	for i := 0; i < maxNormalizePasses; i++ {
		next := normalizeOnce(text)
		if next == text {
			break
		}
		text = next
	}
	return text
}

func normalizeOnce(s string) string {
	s = headBlock.ReplaceAllString(s, "")
	s = scriptBlock.ReplaceAllString(s, "")
	s = styleBlock.ReplaceAllString(s, "")
	s = svgBlock.ReplaceAllString(s, "")
	s = anyTag.ReplaceAllString(s, " ")

	for _, e := range entityDecoder {
		s = strings.ReplaceAll(s, e.from, e.to)
	}
	s = anyEntity.ReplaceAllString(s, " ")

	// UUIDs go before the generic hex rule, which would otherwise eat their
	// outer groups and leave the middle ones behind.
	s = uuidToken.ReplaceAllString(s, "")
	s = hexToken.ReplaceAllString(s, "")
	s = isoDateTime.ReplaceAllString(s, "")
	s = unixStamp.ReplaceAllString(s, "")

	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Hash returns the SHA-256 hex digest of normalized page text.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Fingerprint normalizes an HTML document and hashes the result.
func Fingerprint(html string) string {
	return Hash(ExtractVisibleText(html))
}
