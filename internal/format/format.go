package format

import (
	"fmt"
	"strings"
)

// FmtWords formats a translation word count with thousand separators.
// A zero count yields the empty string; callers substitute the localized
// placeholder dash.
func FmtWords(n int64) string {
	if n <= 0 {
		return ""
	}
	return thousandSep(n)
}

func thousandSep(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	out := ""
	for i, c := range s {
		if i != 0 && (len(s)-i)%3 == 0 {
			out += ","
		}
		out += string(c)
	}
	if neg {
		return "-" + out
	}
	return out
}
