package pdftool

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// DecodeOutput turns raw tool stdout into text. Output is UTF-8, a leading
// BOM is dropped and invalid bytes become U+FFFD. A JSON document is returned
// as is so encoding/json resolves its escapes; any other output has its
// backslash escapes resolved by Unescape.
func DecodeOutput(raw []byte) (string, error) {
	text, err := unicode.UTF8BOM.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode utf-8: %w", err)
	}
	if isJSONDocument(text) {
		return string(text), nil
	}
	return Unescape(string(text))
}

func isJSONDocument(b []byte) bool {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || (b[0] != '{' && b[0] != '[') {
		return false
	}
	return json.Valid(b)
}

// Unescape resolves backslash escapes. Unknown escapes are kept verbatim.
func Unescape(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' {
			r, size := utf8.DecodeRuneInString(s[i:])
			b.WriteRune(r)
			i += size
			continue
		}
		if i+1 >= len(s) {
			return "", fmt.Errorf("trailing backslash at offset %d", i)
		}
		e := s[i+1]
		i += 2
		switch e {
		case '\n':
		case '\\', '\'', '"':
			b.WriteByte(e)
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		case 'x', 'u', 'U':
			width := 2
			switch e {
			case 'u':
				width = 4
			case 'U':
				width = 8
			}
			r, err := hexRune(s, i, width)
			if err != nil {
				return "", err
			}
			i += width
			if utf16.IsSurrogate(r) && e == 'u' && i+6 <= len(s) && s[i] == '\\' && s[i+1] == 'u' {
				if lo, err := hexRune(s, i+2, 4); err == nil {
					if pair := utf16.DecodeRune(r, lo); pair != utf8.RuneError {
						r = pair
						i += 6
					}
				}
			}
			b.WriteRune(r)
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i - 1
			end := j + 1
			for end < len(s) && end < j+3 && s[end] >= '0' && s[end] <= '7' {
				end++
			}
			n, _ := strconv.ParseUint(s[j:end], 8, 32)
			b.WriteRune(rune(n))
			i = end
		default:
			b.WriteByte('\\')
			r, size := utf8.DecodeRuneInString(s[i-1:])
			b.WriteRune(r)
			i += size - 1
		}
	}
	return b.String(), nil
}

func hexRune(s string, at, width int) (rune, error) {
	if at+width > len(s) {
		return 0, fmt.Errorf("truncated escape at offset %d", at-2)
	}
	n, err := strconv.ParseUint(s[at:at+width], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("bad escape %q at offset %d", s[at-2:at+width], at-2)
	}
	if n > utf8.MaxRune {
		return 0, fmt.Errorf("escape %q out of range", s[at-2:at+width])
	}
	return rune(n), nil
}
