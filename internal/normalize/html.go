package normalize

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const ellipsis = "…"

// blockSelector lists elements whose text must not run into a neighbour's.
const blockSelector = "p, div, li, ul, ol, h1, h2, h3, h4, h5, h6, blockquote, section, article, header, footer, " +
	"figure, figcaption, pre, table, tr, td, th, dt, dd"

func parseHTML(raw string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		// The html5 parser only fails on reader errors, which a strings.Reader never returns.
		return nil
	}
	return doc
}

// PlainText strips tags, scripts and styles from raw HTML and collapses whitespace.
func PlainText(raw string) string {
	doc := parseHTML(raw)
	if doc == nil {
		return ""
	}
	doc.Find("script, style, noscript").Remove()
	doc.Find("br, hr").ReplaceWithHtml(" ")
	doc.Find(blockSelector).PrependHtml(" ").AppendHtml(" ")
	return collapseSpace(doc.Text())
}

// Excerpt returns the first limit runes of the plain text of raw, with an ellipsis when cut.
func Excerpt(raw string, limit int) string {
	text := PlainText(raw)
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	cut := strings.TrimRightFunc(string(runes[:limit]), unicode.IsSpace)
	return cut + ellipsis
}

// FirstImage returns the src of the first <img> in raw.
func FirstImage(raw string) string {
	doc := parseHTML(raw)
	if doc == nil {
		return ""
	}
	var src string
	doc.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src = strings.TrimSpace(s.AttrOr("src", ""))
		return src == ""
	})
	return src
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// resolveURL makes ref absolute against base and keeps only http(s) results.
func resolveURL(ref, base string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if !r.IsAbs() {
		b, err := url.Parse(base)
		if err != nil {
			return ""
		}
		r = b.ResolveReference(r)
	}
	if (r.Scheme != "http" && r.Scheme != "https") || r.Host == "" {
		return ""
	}
	return r.String()
}
