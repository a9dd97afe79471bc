package vision

import (
	"regexp"
	"strings"
)

// FirstObject returns the first balanced {...} block in s. Braces inside JSON
// strings are ignored. ok is false when no block closes.
func FirstObject(s string) (block string, ok bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

var (
	scrapeTitle  = regexp.MustCompile(`(?i)title["\s:]+([^"\n,}]+)`)
	scrapeAuthor = regexp.MustCompile(`(?i)author["\s:]+([^"\n,}]+)`)
)

// scrape pulls bare title and author tokens out of a reply that held no usable JSON.
func scrape(reply string) (title, author string) {
	return scrapeToken(scrapeTitle, reply), scrapeToken(scrapeAuthor, reply)
}

func scrapeToken(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	v := strings.Trim(strings.TrimSpace(m[1]), "{[")
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "null") {
		return ""
	}
	return v
}
