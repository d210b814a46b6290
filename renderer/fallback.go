package renderer

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// Inline patterns, applied in order on already-escaped text. Bold runs
// before italic so ** is not consumed as two emphasis markers.
var inlinePatterns = []struct {
	re  *regexp.Regexp
	tag string
}{
	{regexp.MustCompile(`\*\*(.+?)\*\*`), "strong"},
	{regexp.MustCompile(`__(.+?)__`), "strong"},
	{regexp.MustCompile(`\*(.+?)\*`), "em"},
	{regexp.MustCompile(`_(.+?)_`), "em"},
	{regexp.MustCompile("`([^`]*)`"), "code"},
}

var (
	headingRe = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	hrRe      = regexp.MustCompile(`^\s*(---+|\*\*\*+|___+)\s*$`)
	listRe    = regexp.MustCompile(`^\s*[-*]\s+(.*)$`)
	fenceRe   = regexp.MustCompile("^```(\\S*)\\s*$")
)

// Fallback is the minimal markdown renderer: headings, paragraphs, fenced
// code blocks, flat unordered lists, horizontal rules and inline
// bold/italic/code. Anything else is emitted as literal paragraph text.
// The result is unsanitized; callers go through ToHTML.
func Fallback(markdown string) string {
	var out strings.Builder
	lines := strings.Split(markdown, "\n")

	var para []string
	flushPara := func() {
		if len(para) == 0 {
			return
		}
		out.WriteString("<p>")
		out.WriteString(renderInline(strings.Join(para, " ")))
		out.WriteString("</p>\n")
		para = para[:0]
	}

	var list []string
	flushList := func() {
		if len(list) == 0 {
			return
		}
		out.WriteString("<ul>\n")
		for _, item := range list {
			out.WriteString("<li>")
			out.WriteString(renderInline(item))
			out.WriteString("</li>\n")
		}
		out.WriteString("</ul>\n")
		list = list[:0]
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if m := fenceRe.FindStringSubmatch(line); m != nil {
			flushPara()
			flushList()
			lang := m[1]
			var code []string
			for i++; i < len(lines); i++ {
				if fenceRe.MatchString(lines[i]) {
					break
				}
				code = append(code, lines[i])
			}
			if lang != "" {
				out.WriteString(fmt.Sprintf(`<pre><code class="language-%s">`, html.EscapeString(lang)))
			} else {
				out.WriteString("<pre><code>")
			}
			out.WriteString(html.EscapeString(strings.Join(code, "\n")))
			out.WriteString("</code></pre>\n")
			continue
		}

		if strings.TrimSpace(line) == "" {
			flushPara()
			flushList()
			continue
		}

		if m := headingRe.FindStringSubmatch(line); m != nil {
			flushPara()
			flushList()
			depth := len(m[1])
			out.WriteString(fmt.Sprintf("<h%d>%s</h%d>\n", depth, renderInline(m[2]), depth))
			continue
		}

		if hrRe.MatchString(line) {
			flushPara()
			flushList()
			out.WriteString("<hr>\n")
			continue
		}

		if m := listRe.FindStringSubmatch(line); m != nil {
			flushPara()
			list = append(list, m[1])
			continue
		}

		flushList()
		para = append(para, strings.TrimSpace(line))
	}
	flushPara()
	flushList()

	return out.String()
}

func renderInline(text string) string {
	s := html.EscapeString(text)
	for _, p := range inlinePatterns {
		s = p.re.ReplaceAllString(s, "<"+p.tag+">$1</"+p.tag+">")
	}
	return s
}
