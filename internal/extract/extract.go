// Package extract provides pure functions that pull wiki-links and hashtags
// out of raw note text. No resolution against existing documents happens
// here; targets are returned exactly as written.
package extract

import (
	"regexp"
	"strings"
)

var (
	wikiLinkRE = regexp.MustCompile(`\[\[([^\[\]]+)\]\]`)
	tagRE      = regexp.MustCompile(`(?:^|[\s(])#([\p{L}\p{N}][\p{L}\p{N}/_-]*)`)
)

// WikiLinks returns the link targets of every [[target]], [[target|alias]] or
// [[target#heading]] occurrence, deduplicated in first-seen order. Alias and
// heading parts are stripped; the target itself is never resolved.
func WikiLinks(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range wikiLinkRE.FindAllStringSubmatch(text, -1) {
		target := m[1]
		if i := strings.IndexByte(target, '|'); i >= 0 {
			target = target[:i]
		}
		if i := strings.IndexByte(target, '#'); i >= 0 {
			target = target[:i]
		}
		target = strings.TrimSpace(target)
		if target == "" || seen[target] {
			continue
		}
		seen[target] = true
		out = append(out, target)
	}
	return out
}

// Tags returns every #hashtag in the text, deduplicated in first-seen order.
// A tag starts at a word boundary with a letter or digit and may contain
// nested segments like #project/alpha.
func Tags(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range tagRE.FindAllStringSubmatch(text, -1) {
		tag := m[1]
		if seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
