package extract

import (
	"strings"
	"unicode"
)

const minRunLength = 4

// DOC recovers readable text from a legacy Word binary by scanning for
// printable runs. Word stores text either as UTF-16LE or as 8-bit
// characters; the encoding yielding more ASCII alphanumerics wins, since
// decoding 8-bit text as UTF-16 produces CJK noise rather than Latin words.
func DOC(data []byte) (string, error) {
	wide := scanUTF16(data)
	narrow := scan8Bit(data)
	if alnum(wide) >= alnum(narrow) {
		return wide, nil
	}
	return narrow, nil
}

func scanUTF16(data []byte) string {
	var (
		out strings.Builder
		run []rune
	)
	flush := func() {
		if len(run) >= minRunLength {
			out.WriteString(string(run))
			out.WriteByte('\n')
		}
		run = run[:0]
	}
	for i := 0; i+1 < len(data); i += 2 {
		r := rune(data[i]) | rune(data[i+1])<<8
		if printable(r) {
			run = append(run, r)
			continue
		}
		flush()
	}
	flush()
	return out.String()
}

func scan8Bit(data []byte) string {
	var (
		out strings.Builder
		run []byte
	)
	flush := func() {
		if len(run) >= minRunLength {
			out.Write(run)
			out.WriteByte('\n')
		}
		run = run[:0]
	}
	for _, b := range data {
		if b == '\t' || b == '\n' || b == '\r' || (b >= 0x20 && b < 0x7f) {
			run = append(run, b)
			continue
		}
		flush()
	}
	flush()
	return out.String()
}

func printable(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r >= 0x20 && r < 0x7f:
		return true
	case r >= 0xa0 && r < 0xd800:
		return unicode.IsPrint(r)
	}
	return false
}

func alnum(s string) int {
	n := 0
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			n++
		}
	}
	return n
}
