package render

import (
	"regexp"
	"strings"

	"github.com/russross/blackfriday"
)

// Telegram accepts only a small subset of HTML in messages. Markdown coming
// back from the model is rendered with blackfriday and then reduced to that
// subset; unsupported tags are dropped, block tags become line breaks.

var (
	headerOpenRe  = regexp.MustCompile(`<h[1-6][^>]*>`)
	headerCloseRe = regexp.MustCompile(`</h[1-6]>`)
	tagRe         = regexp.MustCompile(`</?([a-zA-Z0-9]+)[^>]*>`)
)

var allowedTags = map[string]bool{
	"b": true, "strong": true,
	"i": true, "em": true,
	"u": true, "s": true, "strike": true,
	"a": true, "code": true, "pre": true,
	"blockquote": true,
}

// ToHTML converts markdown text to Telegram-safe HTML.
func ToHTML(markdown string) string {
	html := string(blackfriday.MarkdownCommon([]byte(markdown)))

	html = headerOpenRe.ReplaceAllString(html, "<b>")
	html = headerCloseRe.ReplaceAllString(html, "</b>\n")

	replacer := strings.NewReplacer(
		"<p>", "", "</p>", "\n",
		"<ul>", "", "</ul>", "",
		"<ol>", "", "</ol>", "",
		"<li>", "• ", "</li>", "\n",
		"<br>", "\n", "<br/>", "\n", "<br />", "\n",
		"<hr>", "\n", "<hr/>", "\n", "<hr />", "\n",
	)
	html = replacer.Replace(html)

	html = tagRe.ReplaceAllStringFunc(html, func(tag string) string {
		name := strings.ToLower(tagRe.FindStringSubmatch(tag)[1])
		if allowedTags[name] {
			return tag
		}
		return ""
	})

	return strings.TrimSpace(html)
}
