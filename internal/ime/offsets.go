package ime

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// UTF8ToUTF16 converts a byte offset into s to a UTF-16 code unit offset.
// Offsets past the end are clamped.
func UTF8ToUTF16(s string, byteOffset int) int {
	byteOffset = clamp(byteOffset, 0, len(s))
	n := 0
	for _, r := range s[:byteOffset] {
		n += utf16.RuneLen(r)
	}
	return n
}

// UTF16ToUTF8 converts a UTF-16 code unit offset into s to a byte offset.
// An offset inside a surrogate pair resolves to the start of the rune.
func UTF16ToUTF8(s string, unitOffset int) int {
	units := 0
	for i, r := range s {
		next := units + utf16.RuneLen(r)
		if next > unitOffset {
			return i
		}
		units = next
	}
	return len(s)
}

// CodepointOffset converts a byte offset into s to a rune count
func CodepointOffset(s string, byteOffset int) int {
	return utf8.RuneCountInString(s[:clamp(byteOffset, 0, len(s))])
}

// ByteOffset converts a rune count into a byte offset into s
func ByteOffset(s string, codepoints int) int {
	n := 0
	for i := range s {
		if n == codepoints {
			return i
		}
		n++
	}
	return len(s)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// snapBack moves off back to the start of the rune containing it
func snapBack(s string, off int) int {
	off = clamp(off, 0, len(s))
	for off > 0 && off < len(s) && !utf8.RuneStart(s[off]) {
		off--
	}
	return off
}

// snapForward moves off forward to the next rune start
func snapForward(s string, off int) int {
	off = clamp(off, 0, len(s))
	for off < len(s) && !utf8.RuneStart(s[off]) {
		off++
	}
	return off
}

// nextGrapheme returns the byte offset of the grapheme cluster boundary after off
func nextGrapheme(s string, off int) int {
	if off >= len(s) {
		return len(s)
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(s[off:], -1)
	return off + len(cluster)
}

// prevGrapheme returns the byte offset of the grapheme cluster boundary before off
func prevGrapheme(s string, off int) int {
	pos, state := 0, -1
	for pos < off {
		cluster, _, _, next := uniseg.FirstGraphemeClusterInString(s[pos:], state)
		if cluster == "" || pos+len(cluster) >= off {
			return pos
		}
		pos += len(cluster)
		state = next
	}
	return pos
}
