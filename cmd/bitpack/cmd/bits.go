package cmd

import "strings"

// formatBits prints the width LS bits of v, in stream order (bit 0 first) unless msbFirst is set.
func formatBits(v uint32, width uint, msbFirst bool) string {
	var sb strings.Builder
	sb.Grow(int(width))
	for bit := uint(0); bit < width; bit++ {
		pos := bit
		if msbFirst {
			pos = width - 1 - bit
		}
		if v>>pos&1 == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
