package naming

import (
	"path"
	"strings"
	"unicode"
)

// fallbackStem is used when a URL contains no letters or digits at all.
const fallbackStem = "asset"

// otherDigits are the digit-valued runes outside category Nd (superscripts,
// subscripts, enclosed and dingbat digits, a few historic scripts).
var otherDigits = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x00b2, Hi: 0x00b3, Stride: 1},
		{Lo: 0x00b9, Hi: 0x00b9, Stride: 1},
		{Lo: 0x1369, Hi: 0x1371, Stride: 1},
		{Lo: 0x19da, Hi: 0x19da, Stride: 1},
		{Lo: 0x2070, Hi: 0x2070, Stride: 1},
		{Lo: 0x2074, Hi: 0x2079, Stride: 1},
		{Lo: 0x2080, Hi: 0x2089, Stride: 1},
		{Lo: 0x2460, Hi: 0x2468, Stride: 1},
		{Lo: 0x2474, Hi: 0x247c, Stride: 1},
		{Lo: 0x2488, Hi: 0x2490, Stride: 1},
		{Lo: 0x24ea, Hi: 0x24ea, Stride: 1},
		{Lo: 0x24f5, Hi: 0x24fd, Stride: 1},
		{Lo: 0x24ff, Hi: 0x24ff, Stride: 1},
		{Lo: 0x2776, Hi: 0x277e, Stride: 1},
		{Lo: 0x2780, Hi: 0x2788, Stride: 1},
		{Lo: 0x278a, Hi: 0x2792, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x10a40, Hi: 0x10a43, Stride: 1},
		{Lo: 0x10e60, Hi: 0x10e68, Stride: 1},
		{Lo: 0x11052, Hi: 0x1105a, Stride: 1},
		{Lo: 0x1f100, Hi: 0x1f10a, Stride: 1},
	},
	LatinOffset: 2,
}

// Sanitize maps a URL to a filesystem-safe name: every letter and digit of the
// raw URL, followed by the extension of its path component. Two URLs that only
// differ in punctuation map to the same name.
func Sanitize(rawURL string) string {
	var b strings.Builder
	b.Grow(len(rawURL))
	for _, r := range rawURL {
		if keep(r) {
			b.WriteRune(r)
		}
	}

	stem := b.String()
	ext := Extension(rawURL)
	if stem == "" && ext == "" {
		return fallbackStem
	}
	return stem + ext
}

func keep(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(otherDigits, r)
}

// Extension returns the extension (with its dot) of the undecoded URL path, or
// "" when its last segment has none. Leading dots of the segment do not start
// an extension, and a backslash ends a segment like a slash does.
func Extension(rawURL string) string {
	p := rawPath(rawURL)
	if p == "" || strings.HasSuffix(p, "/") {
		return ""
	}
	base := p[strings.LastIndexAny(p, `/\`)+1:]
	return path.Ext(strings.TrimLeft(base, "."))
}

// rawPath returns the path of rawURL exactly as written, without
// percent-decoding: the scheme and authority are dropped, the query and
// fragment cut off, and ;params of the last segment removed.
func rawPath(rawURL string) string {
	s := rawURL
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+len("://"):]
		j := strings.IndexAny(s, "/?#")
		if j < 0 {
			return ""
		}
		s = s[j:]
	}
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	last := strings.LastIndexByte(s, '/') + 1
	if i := strings.IndexByte(s[last:], ';'); i >= 0 {
		s = s[:last+i]
	}
	return s
}
