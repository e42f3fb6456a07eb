// Package markdown provides small analysis helpers over mod description
// text. It never renders HTML; the projection only needs plain-text
// summaries for index pages.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// IsMarkdown reports whether a filename looks like a markdown document.
func IsMarkdown(filename string) bool {
	lower := strings.ToLower(filename)
	return strings.HasSuffix(lower, ".md") ||
		strings.HasSuffix(lower, ".markdown") ||
		strings.HasSuffix(lower, ".mkd")
}

// Summarize extracts the first paragraph of a description as plain text,
// truncated to limit runes. Markup (emphasis, links) is flattened to its
// text content via the goldmark AST rather than stripped with regexes.
func Summarize(lines []string, limit int) string {
	source := []byte(strings.Join(lines, "\n"))
	if len(strings.TrimSpace(string(source))) == 0 {
		return ""
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(source))

	var para gmast.Node
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if _, ok := n.(*gmast.Paragraph); ok {
			para = n
			break
		}
	}
	if para == nil {
		return ""
	}

	var b strings.Builder
	_ = gmast.Walk(para, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if t, ok := n.(*gmast.Text); ok {
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		}
		return gmast.WalkContinue, nil
	})

	summary := strings.Join(strings.Fields(b.String()), " ")
	runes := []rune(summary)
	if limit > 0 && len(runes) > limit {
		summary = strings.TrimSpace(string(runes[:limit])) + "..."
	}
	return summary
}
