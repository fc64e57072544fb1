package provider

import (
	"strings"

	"github.com/valyala/bytebufferpool"
)

// Slug lowercases name and replaces spaces with sep, e.g. "Padel Arena" -> "padel-arena".
func Slug(name string, sep byte) string {
	name = strings.TrimSpace(name)
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for _, r := range strings.ToLower(name) {
		if r == ' ' {
			_ = buf.WriteByte(sep)
			continue
		}
		_, _ = buf.WriteString(string(r))
	}
	return buf.String()
}
