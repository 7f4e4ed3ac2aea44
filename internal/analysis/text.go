package analysis

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	sectionHeader = regexp.MustCompile(`^\p{L}+:`)
	leadingDigits = regexp.MustCompile(`^\s*(\d+)`)
	labelLine     = regexp.MustCompile(`^[ \t]*[-*•]?[ \t]*[\p{L}\p{N} ]+:`)
)

// extractSection returns the body of the section opened by header, up to
// the next line that opens another header. Matching is case-insensitive.
func extractSection(text, header string) (string, bool) {
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(header))
	loc := re.FindStringIndex(text)
	if loc == nil {
		return "", false
	}

	lines := strings.Split(text[loc[1]:], "\n")
	body := []string{lines[0]}
	for _, line := range lines[1:] {
		if sectionHeader.MatchString(line) {
			break
		}
		body = append(body, line)
	}
	return strings.TrimSpace(strings.Join(body, "\n")), true
}

// nonEmptyLines splits a block into trimmed, non-blank lines
func nonEmptyLines(block string) []string {
	var out []string
	for _, line := range strings.Split(block, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// splitFields splits a pipe-delimited line and trims every field
func splitFields(line string) []string {
	parts := strings.Split(line, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// leadingInt parses the digits a value starts with, so "40h" and "13 pts"
// both yield their number.
func leadingInt(s string) (int, bool) {
	m := leadingDigits.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// intOr returns the leading integer of s, or fallback when there is none
func intOr(s string, fallback int) int {
	if n, ok := leadingInt(s); ok {
		return n
	}
	return fallback
}

// labelled reads "Label: value" lines out of a prose block
type labelled struct {
	block string
}

func (l labelled) pattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?mi)^[ \t]*[-*•]?[ \t]*` + regexp.QuoteMeta(label) + `:[ \t]*([^\n]*)$`)
}

// value returns the text on the label's own line
func (l labelled) value(label string) (string, bool) {
	m := l.pattern(label).FindStringSubmatch(l.block)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// multiline returns the label's value plus every following line until the
// next labelled line.
func (l labelled) multiline(label string) (string, bool) {
	loc := l.pattern(label).FindStringSubmatchIndex(l.block)
	if loc == nil {
		return "", false
	}

	parts := []string{l.block[loc[2]:loc[3]]}
	rest := l.block[loc[1]:]
	for _, line := range strings.Split(strings.TrimPrefix(rest, "\n"), "\n") {
		if labelLine.MatchString(line) {
			break
		}
		parts = append(parts, line)
	}
	return strings.TrimSpace(strings.Join(parts, "\n")), true
}

// blocks cuts text into the spans that start at each header match and run
// until the next header match or the end of the text.
func blocks(text string, headers ...*regexp.Regexp) []block {
	var found []block
	for _, h := range headers {
		for _, loc := range h.FindAllStringSubmatchIndex(text, -1) {
			groups := make([]string, 0, len(loc)/2)
			for i := 2; i+1 < len(loc); i += 2 {
				if loc[i] < 0 {
					groups = append(groups, "")
					continue
				}
				groups = append(groups, text[loc[i]:loc[i+1]])
			}
			found = append(found, block{header: h, start: loc[0], bodyStart: loc[1], groups: groups})
		}
	}

	sortBlocks(found)
	for i := range found {
		end := len(text)
		if i+1 < len(found) {
			end = found[i+1].start
		}
		if end < found[i].bodyStart {
			end = found[i].bodyStart
		}
		found[i].body = text[found[i].bodyStart:end]
	}
	return found
}

type block struct {
	header    *regexp.Regexp
	start     int
	bodyStart int
	groups    []string
	body      string
}

func sortBlocks(b []block) {
	for i := 1; i < len(b); i++ {
		for j := i; j > 0 && b[j].start < b[j-1].start; j-- {
			b[j], b[j-1] = b[j-1], b[j]
		}
	}
}
