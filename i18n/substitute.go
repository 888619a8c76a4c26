package i18n

import (
	"fmt"
	"sort"
	"strings"
)

// Substitute replaces `$key$` placeholders in text with the matching value.
// Placeholders without a value are left untouched.
func Substitute(text string, values map[string]any) string {
	if len(values) == 0 || !strings.Contains(text, "$") {
		return text
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, "$"+k+"$", fmt.Sprint(values[k]))
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
