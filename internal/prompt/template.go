package prompt

import (
	"fmt"
	"strings"
)

// FormatTemplate: {key} 자리표시자를 값으로 치환합니다. {{ 와 }} 는 리터럴이다.
func FormatTemplate(template string, values map[string]string) (string, error) {
	var out strings.Builder
	out.Grow(len(template))

	rest := template
	for len(rest) > 0 {
		open := strings.IndexAny(rest, "{}")
		if open < 0 {
			out.WriteString(rest)
			break
		}
		out.WriteString(rest[:open])

		brace := rest[open]
		rest = rest[open+1:]

		// 이중 중괄호는 하나로 접는다.
		if len(rest) > 0 && rest[0] == brace {
			out.WriteByte(brace)
			rest = rest[1:]
			continue
		}
		if brace == '}' {
			return "", fmt.Errorf("invalid template: unexpected '}'")
		}

		close := strings.IndexByte(rest, '}')
		if close < 0 {
			return "", fmt.Errorf("invalid template: missing '}'")
		}
		key := rest[:close]
		value, ok := values[key]
		if !ok {
			return "", fmt.Errorf("missing template value for %q", key)
		}
		out.WriteString(value)
		rest = rest[close+1:]
	}

	return out.String(), nil
}
