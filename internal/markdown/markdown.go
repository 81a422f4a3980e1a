// Package markdown renders user-supplied Markdown into HTML for the
// description_html and page_html response fields.
package markdown

import (
	"github.com/russross/blackfriday/v2"
)

// ToHTML renders CommonMark-ish Markdown to HTML. Raw HTML in the
// source is not passed through.
func ToHTML(text string) string {
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.CommonHTMLFlags | blackfriday.SkipHTML,
	})
	out := blackfriday.Run([]byte(text),
		blackfriday.WithRenderer(renderer),
		blackfriday.WithExtensions(blackfriday.CommonExtensions),
	)
	return string(out)
}
