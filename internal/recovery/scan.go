package recovery

import "strings"

const fence = "```"

// StripFences removes a surrounding code fence. The opening delimiter line
// (including any language tag) and the closing delimiter line are dropped;
// interior lines are returned verbatim. Text without an opening fence is
// returned trimmed.
func StripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, fence) {
		return trimmed
	}
	body := trimmed
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	} else {
		// Single-line block: drop the delimiter and any language tag.
		body = strings.TrimLeft(body[len(fence):], "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
	}
	if idx := strings.LastIndex(body, fence); idx >= 0 && strings.TrimSpace(body[idx+len(fence):]) == "" {
		body = body[:idx]
		body = strings.TrimSuffix(body, "\n")
		body = strings.TrimSuffix(body, "\r")
	}
	return body
}

// ExtractEnvelope returns the text from the first '{' through the last '}'
// inclusive.
func ExtractEnvelope(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", ErrNoStructureFound
	}
	end := strings.LastIndexByte(text, '}')
	if end <= start {
		return "", ErrNoStructureFound
	}
	return text[start : end+1], nil
}

type scanState int

const (
	outsideString scanState = iota
	insideString
	insideEscape
)

// RepairSyntax applies the fixed text repairs that precede strict parsing:
// separators directly before a closing bracket or brace are dropped, and
// literal line breaks inside string values become a single space. Quote and
// escape tracking uses an explicit three-state scanner so escaped quotes never
// toggle string state.
func RepairSyntax(blob string) string {
	var out strings.Builder
	out.Grow(len(blob))
	state := outsideString

	for i := 0; i < len(blob); i++ {
		c := blob[i]
		switch state {
		case outsideString:
			switch c {
			case '"':
				state = insideString
			case ',':
				if closesAfterWhitespace(blob, i+1) {
					continue
				}
			}
			out.WriteByte(c)
		case insideString:
			switch c {
			case '\\':
				state = insideEscape
				out.WriteByte(c)
			case '"':
				state = outsideString
				out.WriteByte(c)
			case '\r':
				if i+1 < len(blob) && blob[i+1] == '\n' {
					continue
				}
				out.WriteByte(' ')
			case '\n':
				out.WriteByte(' ')
			default:
				out.WriteByte(c)
			}
		case insideEscape:
			state = insideString
			out.WriteByte(c)
		}
	}
	return out.String()
}

func closesAfterWhitespace(s string, from int) bool {
	for j := from; j < len(s); j++ {
		switch s[j] {
		case ' ', '\t', '\n', '\r':
			continue
		case ']', '}':
			return true
		default:
			return false
		}
	}
	return false
}
