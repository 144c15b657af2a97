// Package sortname generates sort names for artists and albums so that
// browsing ignores leading articles ("The Beatles" sorts under B).
package sortname

import (
	"strings"
)

// Articles are moved from the beginning of a name to the end.
// "The Beatles" becomes "Beatles, The".
var Articles = []string{
	"The",
	"A",
	"An",
}

// ForName generates a sort name from a display name. A leading article is
// moved to the end, preserving its original case. Names without a leading
// article are returned unchanged.
func ForName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	for _, article := range Articles {
		prefix := article + " "
		if len(name) <= len(prefix) {
			continue
		}
		if !strings.EqualFold(name[:len(prefix)], prefix) {
			continue
		}
		rest := strings.TrimSpace(name[len(prefix):])
		if rest == "" {
			continue
		}
		return rest + ", " + name[:len(article)]
	}

	return name
}
