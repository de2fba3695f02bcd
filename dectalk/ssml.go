package dectalk

import (
	"strconv"
	"strings"
)

// namedEntities maps entity prefixes to their decoded byte. The bracket and
// colon entities exist so literal characters from the engine's inline
// command syntax can be written safely in markup.
var namedEntities = []struct {
	text string
	repl byte
}{
	{"&amp;", '&'},
	{"&lt;", '<'},
	{"&gt;", '>'},
	{"&quot;", '"'},
	{"&apos;", '\''},
	{"&#91;", '['},
	{"&#93;", ']'},
	{"&#58;", ':'},
}

// ExtractText strips SSML markup down to the plain text the engine should
// speak, writing at most maxLen-1 bytes. Markup between < and > is
// discarded without validation beyond bracket matching; outside tags,
// recognized entities decode to single bytes and generic numeric entities
// &#NNN; decode for 0 < NNN < 256 when the semicolon falls within 8 bytes.
// Malformed or out-of-range entities are emitted literally.
//
// The scan is byte-oriented, matching the engine's single-byte text
// encoding; multi-byte input passes through unchanged.
func ExtractText(ssml string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	var out strings.Builder
	inTag := false

	for i := 0; i < len(ssml) && out.Len() < maxLen-1; {
		c := ssml[i]

		if c == '<' {
			inTag = true
			i++
			continue
		}
		if c == '>' {
			inTag = false
			i++
			continue
		}
		if inTag {
			i++
			continue
		}

		if c == '&' {
			if repl, width, ok := decodeEntity(ssml[i:]); ok {
				out.WriteByte(repl)
				i += width
				continue
			}
		}

		// Plain text, or an entity that failed to decode: either way the
		// current byte is consumed, so the scan always advances.
		out.WriteByte(c)
		i++
	}

	return out.String()
}

// decodeEntity tries to decode an entity at the start of s, returning the
// decoded byte and how many input bytes it spans.
func decodeEntity(s string) (repl byte, width int, ok bool) {
	for _, e := range namedEntities {
		if strings.HasPrefix(s, e.text) {
			return e.repl, len(e.text), true
		}
	}

	// Generic numeric entity &#NNN; with the terminator close by.
	if strings.HasPrefix(s, "&#") {
		semi := strings.IndexByte(s, ';')
		if semi > 2 && semi < 8 {
			code, err := strconv.Atoi(s[2:semi])
			if err == nil && code > 0 && code < 256 {
				return byte(code), semi + 1, true
			}
		}
	}

	return 0, 0, false
}
