package normalize

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

const (
	struckSelector   = "del, s, strike"
	priceSelector    = ".price, strong, b"
	dealLinkSelector = "a.deal-link[href], a.btn[href]"
)

// dealFields are the offer details found in a deal post body.
type dealFields struct {
	OldPrice string
	NewPrice string
	Link     string
}

// extractDeal reads the struck-through old price, the first other price-like text and the
// call-to-action link from a deal post body. fallbackLink is used when the body has no anchor.
func extractDeal(raw, fallbackLink string) dealFields {
	out := dealFields{Link: strings.TrimSpace(fallbackLink)}
	doc := parseHTML(raw)
	if doc == nil {
		return out
	}

	out.OldPrice = collapseSpace(doc.Find(struckSelector).First().Text())

	doc.Find(priceSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.Closest(struckSelector).Length() > 0 {
			return true
		}
		text := collapseSpace(s.Text())
		if !looksLikePrice(text) || text == out.OldPrice {
			return true
		}
		out.NewPrice = text
		return false
	})

	if href := firstHref(doc.Find(dealLinkSelector)); href != "" {
		out.Link = href
	} else if href := firstHref(doc.Find("a[href]")); href != "" {
		out.Link = href
	}
	return out
}

func firstHref(sel *goquery.Selection) string {
	var href string
	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href = strings.TrimSpace(s.AttrOr("href", ""))
		return href == ""
	})
	return href
}

// looksLikePrice reports whether s carries a digit and a currency marker.
func looksLikePrice(s string) bool {
	if !strings.ContainsFunc(s, unicode.IsDigit) {
		return false
	}
	lower := strings.ToLower(s)
	for _, marker := range []string{"€", "$", "£", "eur", "usd"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
