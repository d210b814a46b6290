package renderer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"folio/renderer"
)

func TestToHTMLPlainParagraph(t *testing.T) {
	out := renderer.ToHTML("Hello world")
	assert.Contains(t, out, "<p>Hello world</p>")
}

func TestToHTMLEscapesAngleBrackets(t *testing.T) {
	out := renderer.ToHTML("x < y")
	assert.Contains(t, out, "x &lt; y")
}

func TestToHTMLStripsScripts(t *testing.T) {
	out := renderer.ToHTML("before\n\n<script>alert(1)</script>\n\nafter")
	assert.NotContains(t, out, "<script")
	assert.Contains(t, out, "before")
	assert.Contains(t, out, "after")
}

func TestToHTMLStripsEventHandlers(t *testing.T) {
	out := renderer.ToHTML(`click <a href="/x" onclick="evil()">here</a>`)
	assert.NotContains(t, out, "onclick")
	assert.Contains(t, out, "here")
}

func TestToHTMLHeadings(t *testing.T) {
	out := renderer.ToHTML("# Top\n\n###### Bottom")
	assert.Contains(t, out, "<h1>Top</h1>")
	assert.Contains(t, out, "<h6>Bottom</h6>")
}

func TestToHTMLFencedCodeKeepsLanguage(t *testing.T) {
	out := renderer.ToHTML("```go\nfmt.Println(\"hi\")\n```")
	assert.Contains(t, out, `class="language-go"`)
	assert.Contains(t, out, "fmt.Println")
	// code body is not interpreted as markdown
	assert.NotContains(t, out, "<strong>")
}

func TestToHTMLInlineEmphasis(t *testing.T) {
	out := renderer.ToHTML("**bold** and *ital* and `span`")
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.Contains(t, out, "<em>ital</em>")
	assert.Contains(t, out, "<code>span</code>")
}

func TestToHTMLList(t *testing.T) {
	out := renderer.ToHTML("- one\n- two")
	assert.Contains(t, out, "<li>one</li>")
	assert.Contains(t, out, "<li>two</li>")
}

func TestToHTMLIdempotent(t *testing.T) {
	src := "# Title\n\nSome **text** with `code`.\n\n- a\n- b\n\n---\n"
	first := renderer.ToHTML(src)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, renderer.ToHTML(src))
	}
}

func TestFallbackParagraph(t *testing.T) {
	assert.Equal(t, "<p>Hello</p>\n", renderer.Fallback("Hello"))
}

func TestFallbackEscapes(t *testing.T) {
	assert.Equal(t, "<p>a &lt; b</p>\n", renderer.Fallback("a < b"))
}

func TestFallbackHeading(t *testing.T) {
	out := renderer.Fallback("## Section")
	assert.Equal(t, "<h2>Section</h2>\n", out)
}

func TestFallbackFence(t *testing.T) {
	out := renderer.Fallback("```go\na := 1\n```")
	assert.Equal(t, "<pre><code class=\"language-go\">a := 1</code></pre>\n", out)
}

func TestFallbackFenceNoLanguage(t *testing.T) {
	out := renderer.Fallback("```\nraw\n```")
	assert.Equal(t, "<pre><code>raw</code></pre>\n", out)
}

func TestFallbackList(t *testing.T) {
	out := renderer.Fallback("- one\n- two\n\ntail")
	assert.Contains(t, out, "<ul>\n<li>one</li>\n<li>two</li>\n</ul>\n")
	assert.Contains(t, out, "<p>tail</p>")
}

func TestFallbackHorizontalRule(t *testing.T) {
	out := renderer.Fallback("above\n\n---\n\nbelow")
	assert.Contains(t, out, "<hr>\n")
}

func TestFallbackInline(t *testing.T) {
	out := renderer.Fallback("**b** _i_ `c`")
	assert.Contains(t, out, "<strong>b</strong>")
	assert.Contains(t, out, "<em>i</em>")
	assert.Contains(t, out, "<code>c</code>")
}

func TestFallbackJoinsParagraphLines(t *testing.T) {
	out := renderer.Fallback("line one\nline two")
	assert.Equal(t, "<p>line one line two</p>\n", out)
}

func TestFallbackNeverPanicsOnPartialSyntax(t *testing.T) {
	inputs := []string{
		"```go\nunclosed fence",
		"**unclosed bold",
		"######too many",
		"",
		"\n\n\n",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { _ = renderer.Fallback(in) })
		assert.NotPanics(t, func() { _ = renderer.ToHTML(in) })
	}
	// unrecognized syntax degrades to literal text
	out := renderer.Fallback("**unclosed bold")
	assert.True(t, strings.HasPrefix(out, "<p>"))
	assert.Contains(t, out, "**unclosed bold")
}
