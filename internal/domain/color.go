package domain

import "unicode/utf16"

// tagPalette holds the fixed set of tag chip colors.
var tagPalette = [...]string{
	"#48cae4", "#8ecae6", "#ffb703", "#ffc300", "#ffc8dd", "#a8dadc", "#dee2e6",
}

// TagColor picks a palette entry for a tag name. The hash is the classic
// 31-multiplier string hash over UTF-16 code units with 32-bit wraparound,
// so the same name maps to the same color across sessions and restarts.
func TagColor(name string) string {
	var h int32
	for _, cu := range utf16.Encode([]rune(name)) {
		h = int32(cu) + (h<<5 - h)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return tagPalette[v%int64(len(tagPalette))]
}
