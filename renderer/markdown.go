// Package renderer converts a page's raw markdown into sanitized HTML.
// goldmark does the heavy lifting; Fallback is a deliberately small
// line-based renderer used when conversion fails. All output, either way,
// passes through the same allow-list sanitizer, so embedded raw HTML can
// never carry scripts, event handlers or arbitrary styles.
package renderer

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	// raw HTML is passed through here and stripped by the sanitizer
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

var policy = buildPolicy()

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	// language-* classes on fenced code blocks
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre", "span")
	p.AllowAttrs("target", "rel", "title").OnElements("a")
	p.AllowAttrs("title", "width", "height", "loading", "decoding").OnElements("img")
	p.AllowTables()
	return p
}

// ToHTML renders markdown to sanitized HTML. It never fails: if goldmark
// rejects the input the fallback renderer takes over, emitting unrecognized
// syntax as literal text. Output is deterministic for a given input.
func ToHTML(markdown string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return policy.Sanitize(Fallback(markdown))
	}
	return policy.Sanitize(buf.String())
}
