package appconfig

import "strings"

// EscapeReserved backslash-escapes the reserved characters '*', ',' and '\'
// in a filter value. A '*' at the very beginning or very end is left alone so
// it keeps its wildcard meaning. The empty string maps to "\x00", which the
// service treats as the null filter.
func EscapeReserved(value string) string {
	if value == "" {
		return "\x00"
	}
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch c {
		case '\\', ',':
			b.WriteByte('\\')
		case '*':
			if i != 0 && i != len(value)-1 {
				b.WriteByte('\\')
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// escapeAll escapes each filter in the slice. A nil slice stays nil so an
// absent filter is distinguishable from an empty one.
func escapeAll(values []string) []string {
	if values == nil {
		return nil
	}
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = EscapeReserved(v)
	}
	return escaped
}

// quoteETag wraps an etag in double quotes for a conditional header. The
// wildcard and the empty value pass through unquoted.
func quoteETag(etag string) string {
	if etag == "" || etag == "*" {
		return etag
	}
	return `"` + etag + `"`
}
