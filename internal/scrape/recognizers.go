package scrape

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/user/collection-service/internal/entity"
)

// recognizer contributes at most one field. match returns the extracted
// value, the confidence of the match, and whether the recognizer fired.
// Recognizers are independent so each can be tested on its own.
type recognizer struct {
	field string
	match func(p *page) (any, float64, bool)
}

func recognizersFor(kind string) []recognizer {
	switch kind {
	case entity.KindReturnPolicy:
		return returnPolicyRecognizers
	case entity.KindPriceMatchPolicy:
		return priceMatchRecognizers
	default:
		return productRecognizers
	}
}

// Day-count windows beyond ten years are treated as extraction garbage.
const maxPolicyWindowDays = 3650

var (
	reReturnWindowSpecific = regexp.MustCompile(`(\d+)[-\s]day\s+(?:returns?|refunds?|exchanges?|money[-\s]back)`)
	reReturnWithin         = regexp.MustCompile(`returns?(?:\s+(?:are|accepted|allowed|available|possible))*\s+within\s+(\d+)\s+days`)
	reWithinOfPurchase     = regexp.MustCompile(`within\s+(\d+)\s+days\s+of\s+(?:purchase|delivery|receipt)`)
	reFreeReturnShipping   = regexp.MustCompile(`free\s+returns?\s+shipping|free\s+returns?\b|returns?\s+ship(?:ping)?\s+(?:is\s+)?free`)
	reRestockingFee        = regexp.MustCompile(`(\d+)\s*%\s*restocking\s+fee`)
	reNoReturns            = regexp.MustCompile(`final\s+sale|all\s+sales\s+(?:are\s+)?final|no\s+returns?\b|non[-\s]returnable`)
	reVagueReturns         = regexp.MustCompile(`returns?\s+accepted|we\s+accept\s+returns?|easy\s+returns?|hassle[-\s]free\s+returns?`)

	rePriceMatchWithin    = regexp.MustCompile(`price\s+match(?:ing)?(?:\s+\w+)?\s+within\s+(\d+)\s+days`)
	rePriceAdjustDays     = regexp.MustCompile(`(\d+)[-\s]day\s+price\s+(?:match(?:ing)?|adjustment|protection|guarantee)`)
	rePriceMatchGuarantee = regexp.MustCompile(`price\s+match(?:ing)?\s+guarantee|we(?:['’]ll|\s+will)\s+match\s+(?:any|the)\s+price`)
	rePriceMatchMention   = regexp.MustCompile(`price\s+match(?:ing)?`)

	rePriceInText = regexp.MustCompile(`[$€£]\s?(\d+(?:\.\d{1,2})?)`)
)

var returnPolicyRecognizers = []recognizer{
	{field: "return_window_days", match: dayMatcher("return_window_days", reReturnWindowSpecific, 0.9)},
	{field: "return_window_days", match: dayMatcher("return_window_days", reReturnWithin, 0.9)},
	{field: "return_window_days", match: dayMatcher("return_window_days", reWithinOfPurchase, 0.7)},
	{field: "free_return_shipping", match: boolMatcher(reFreeReturnShipping, true, 0.85)},
	{field: "restocking_fee_percent", match: percentMatcher("restocking_fee_percent", reRestockingFee, 0.85)},
	{field: "returns_accepted", match: boolMatcher(reNoReturns, false, 0.8)},
	{field: "returns_accepted", match: boolMatcher(reVagueReturns, true, 0.4)},
}

var priceMatchRecognizers = []recognizer{
	{field: "price_match_window_days", match: dayMatcher("price_match_window_days", rePriceMatchWithin, 0.9)},
	{field: "price_match_window_days", match: dayMatcher("price_match_window_days", rePriceAdjustDays, 0.85)},
	{field: "price_match_offered", match: boolMatcher(rePriceMatchGuarantee, true, 0.8)},
	{field: "price_match_offered", match: boolMatcher(rePriceMatchMention, true, 0.5)},
}

var productRecognizers = []recognizer{
	{field: "name", match: metaMatcher(0.9, "og:title", "twitter:title")},
	{field: "name", match: titleMatcher},
	{field: "brand", match: brandMatcher},
	{field: "price", match: priceMetaMatcher},
	{field: "price", match: priceTextMatcher},
	{field: "currency", match: metaMatcher(0.9, "og:price:currency", "product:price:currency")},
	{field: "image_url", match: metaMatcher(0.8, "og:image")},
}

// dayCount extracts the first captured day count, dropping out-of-range
// values with a warning instead of propagating garbage.
func (p *page) dayCount(field string, re *regexp.Regexp) (int, bool) {
	m := re.FindStringSubmatch(p.lower)
	if m == nil {
		return 0, false
	}
	var digits string
	for _, g := range m[1:] {
		if g != "" {
			digits = g
			break
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	if n <= 0 || n > maxPolicyWindowDays {
		p.warnings = append(p.warnings, fmt.Sprintf("dropped %s: %d days is out of range", field, n))
		return 0, false
	}
	return n, true
}

func dayMatcher(field string, re *regexp.Regexp, confidence float64) func(*page) (any, float64, bool) {
	return func(p *page) (any, float64, bool) {
		n, ok := p.dayCount(field, re)
		if !ok {
			return nil, 0, false
		}
		return n, confidence, true
	}
}

func boolMatcher(re *regexp.Regexp, value bool, confidence float64) func(*page) (any, float64, bool) {
	return func(p *page) (any, float64, bool) {
		if !re.MatchString(p.lower) {
			return nil, 0, false
		}
		return value, confidence, true
	}
}

func percentMatcher(field string, re *regexp.Regexp, confidence float64) func(*page) (any, float64, bool) {
	return func(p *page) (any, float64, bool) {
		m := re.FindStringSubmatch(p.lower)
		if m == nil {
			return nil, 0, false
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, 0, false
		}
		if n < 0 || n > 100 {
			p.warnings = append(p.warnings, fmt.Sprintf("dropped %s: %d%% is out of range", field, n))
			return nil, 0, false
		}
		return n, confidence, true
	}
}

func metaMatcher(confidence float64, keys ...string) func(*page) (any, float64, bool) {
	return func(p *page) (any, float64, bool) {
		if content := p.meta(keys...); content != "" {
			return content, confidence, true
		}
		return nil, 0, false
	}
}

func titleMatcher(p *page) (any, float64, bool) {
	title := strings.TrimSpace(p.doc.Find("title").First().Text())
	if title == "" {
		return nil, 0, false
	}
	return title, 0.6, true
}

func brandMatcher(p *page) (any, float64, bool) {
	if brand := p.meta("og:brand", "product:brand", "brand"); brand != "" {
		return brand, 0.8, true
	}
	brand := strings.TrimSpace(p.doc.Find(`[itemprop=brand]`).First().Text())
	if brand == "" {
		return nil, 0, false
	}
	return brand, 0.7, true
}

func priceMetaMatcher(p *page) (any, float64, bool) {
	raw := p.meta("og:price:amount", "product:price:amount")
	confidence := 0.95
	if raw == "" {
		confidence = 0.85
		if content, ok := p.doc.Find(`[itemprop=price]`).First().Attr("content"); ok {
			raw = content
		} else {
			raw = p.doc.Find(`[itemprop=price]`).First().Text()
		}
	}
	return p.priceValue(raw, confidence)
}

func priceTextMatcher(p *page) (any, float64, bool) {
	m := rePriceInText.FindStringSubmatch(p.text)
	if m == nil {
		return nil, 0, false
	}
	return p.priceValue(m[1], 0.5)
}

func (p *page) priceValue(raw string, confidence float64) (any, float64, bool) {
	raw = strings.TrimSpace(strings.Trim(raw, "$€£ "))
	if raw == "" {
		return nil, 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, 0, false
	}
	if v <= 0 || v >= 1e6 {
		p.warnings = append(p.warnings, fmt.Sprintf("dropped price: %v is out of range", v))
		return nil, 0, false
	}
	return v, confidence, true
}
