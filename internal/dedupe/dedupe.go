// Package dedupe classifies whether a candidate item duplicates an already
// stored one. The check is deterministic and side-effect-free; thresholds are
// fixed constants.
package dedupe

import (
	"net/url"
	"strings"

	"github.com/user/collection-service/internal/entity"
)

// MatchType is the outcome of a duplicate check.
type MatchType string

const (
	MatchNone    MatchType = "none"
	MatchExact   MatchType = "exact"
	MatchSimilar MatchType = "similar"
)

// Relative price tolerance for similar matches.
const priceTolerance = 0.05

// Report lists the stored items a candidate collides with. Matches is empty
// when Type is MatchNone.
type Report struct {
	Type    MatchType      `json:"type"`
	Matches []*entity.Item `json:"matches,omitempty"`
}

// Check compares a candidate against the stored items. Exact matches
// (canonical URL equality) shadow similar matches: similarity is only
// evaluated when no exact match exists.
func Check(candidate *entity.Item, existing []*entity.Item) Report {
	candidateURL := CanonicalURL(candidate.URL)

	var exact []*entity.Item
	if candidateURL != "" {
		for _, item := range existing {
			if CanonicalURL(item.URL) == candidateURL {
				exact = append(exact, item)
			}
		}
	}
	if len(exact) > 0 {
		return Report{Type: MatchExact, Matches: exact}
	}

	var similar []*entity.Item
	for _, item := range existing {
		if isSimilar(candidate, item) {
			similar = append(similar, item)
		}
	}
	if len(similar) > 0 {
		return Report{Type: MatchSimilar, Matches: similar}
	}
	return Report{Type: MatchNone}
}

func isSimilar(a, b *entity.Item) bool {
	nameA, nameB := normalizeName(a.Name), normalizeName(b.Name)
	if nameA == "" || nameB == "" {
		return false
	}
	if nameA != nameB && !strings.Contains(nameA, nameB) && !strings.Contains(nameB, nameA) {
		return false
	}

	brandA, brandB := normalizeName(a.Brand), normalizeName(b.Brand)
	if brandA != "" && brandB != "" && brandA != brandB {
		return false
	}

	// A price of 0 means no price recorded; the tolerance only applies when
	// both sides have one.
	if a.Price > 0 && b.Price > 0 && !withinTolerance(a.Price, b.Price) {
		return false
	}
	return true
}

func withinTolerance(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	max := a
	if b > max {
		max = b
	}
	return diff/max <= priceTolerance
}

// normalizeName lowercases and collapses whitespace for comparison.
func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Query parameters that identify a visit, not a product.
var trackingParams = map[string]bool{
	"fbclid":  true,
	"gclid":   true,
	"msclkid": true,
	"mc_cid":  true,
	"mc_eid":  true,
	"ref":     true,
	"source":  true,
}

// CanonicalURL normalizes a URL for equality comparison: lowercased scheme
// and host, default ports and fragments stripped, tracking query parameters
// removed, remaining parameters sorted, trailing slash trimmed. Returns ""
// for empty or unparseable input.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if (u.Scheme == "http" && strings.HasSuffix(u.Host, ":80")) ||
		(u.Scheme == "https" && strings.HasSuffix(u.Host, ":443")) {
		u.Host = u.Host[:strings.LastIndex(u.Host, ":")]
	}
	u.Fragment = ""

	query := u.Query()
	for key := range query {
		if trackingParams[key] || strings.HasPrefix(key, "utm") {
			query.Del(key)
		}
	}
	u.RawQuery = query.Encode() // Encode sorts keys

	if u.Path != "/" {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}
	return u.String()
}
