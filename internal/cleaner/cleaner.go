// Package cleaner turns scraped HTML pages into plain text with site boilerplate removed.
package cleaner

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var numericLineRe = regexp.MustCompile(`^\d+(,\d+)*$`)

// Cleaner strips markup and deny-listed boilerplate from scraped pages.
type Cleaner struct {
	denyList []string
}

// New returns a Cleaner using denyList, or DefaultDenyList when denyList is empty.
func New(denyList []string) *Cleaner {
	if len(denyList) == 0 {
		denyList = DefaultDenyList
	}
	return &Cleaner{denyList: denyList}
}

// Clean extracts the visible text of raw and removes unwanted content.
func (c *Cleaner) Clean(raw string) string {
	return RemoveUnwanted(ExtractText(raw), c.denyList)
}

// ExtractText returns the text content of an HTML document, one text node per line.
// Script and style elements are dropped, lines are trimmed and blank lines removed.
func ExtractText(raw string) string {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		// html.Parse only fails on reader errors; fall back to the raw input.
		return keepNonBlank(raw, false)
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return keepNonBlank(sb.String(), false)
}

// RemoveUnwanted deletes every deny-list literal wherever it occurs, then drops
// lines that are blank or consist only of comma-separated digits.
// All substring removals run before the line filter, and they repeat until a
// full pass over denyList changes nothing, since removing one entry can join
// the text around it into another.
func RemoveUnwanted(text string, denyList []string) string {
	for {
		before := text
		for _, pattern := range denyList {
			if pattern == "" {
				continue
			}
			text = strings.ReplaceAll(text, pattern, "")
		}
		if text == before {
			break
		}
	}
	return keepNonBlank(text, true)
}

// DedupeLines drops lines already present in seen and records the new ones.
// Blank lines are dropped.
func DedupeLines(text string, seen map[string]struct{}) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func keepNonBlank(text string, dropNumeric bool) string {
	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if dropNumeric && numericLineRe.MatchString(line) {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
