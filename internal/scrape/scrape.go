package scrape

import (
	"fmt"
	"net/url"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/user/collection-service/internal/entity"
	"github.com/user/collection-service/pkg/utils"
)

// Field is one extracted value with the confidence of the recognizer that
// produced it.
type Field struct {
	Value      any     `json:"value"`
	Confidence float64 `json:"confidence"`
}

// Result is the outcome of running the recognizers over a captured page.
// Either Success is false and Warnings explain why, or Data holds per-field
// values and Confidence is the mean of the populated field confidences.
// A Result is immutable once produced.
type Result struct {
	Success    bool             `json:"success"`
	Data       map[string]Field `json:"data,omitempty"`
	Confidence float64          `json:"confidence"`
	Warnings   []string         `json:"warnings,omitempty"`
	SourceURLs []string         `json:"source_urls,omitempty"`
	Snapshot   string           `json:"snapshot,omitempty"`
}

// Extract runs the capture kind's recognizers over the raw captured content.
// It never fails hard: unparseable or unrecognizable input yields a
// Success=false result with warnings, so the caller can fall back to manual
// entry.
func Extract(payload *entity.CapturePayload) *Result {
	p, err := parsePage(payload.CapturedContent, payload.SourceURL)
	if err != nil {
		return &Result{
			Success:  false,
			Warnings: []string{fmt.Sprintf("could not parse captured content: %v", err)},
		}
	}

	res := &Result{Data: make(map[string]Field)}
	for _, rec := range recognizersFor(payload.CaptureKind) {
		// First recognizer to claim a field wins; the registry is ordered
		// most-specific first.
		if _, claimed := res.Data[rec.field]; claimed {
			continue
		}
		value, confidence, ok := rec.match(p)
		if !ok {
			continue
		}
		res.Data[rec.field] = Field{Value: value, Confidence: confidence}
	}
	applyHints(p, res, payload)
	res.Warnings = append(res.Warnings, p.warnings...)
	res.SourceURLs = discoverPolicyLinks(p)

	if len(res.Data) == 0 {
		res.Data = nil
		res.Success = false
		res.Confidence = 0
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("no %s fields recognized in captured content", payload.CaptureKind))
		return res
	}

	res.Success = true
	var sum float64
	for _, f := range res.Data {
		sum += f.Confidence
	}
	res.Confidence = sum / float64(len(res.Data))

	if payload.CaptureKind == entity.KindReturnPolicy || payload.CaptureKind == entity.KindPriceMatchPolicy {
		res.Snapshot = policySnapshot(payload.CapturedContent)
	}
	return res
}

// Confidence assigned to agent-side hint values. Hints are the in-page
// agent's own heuristics; they only fill fields the recognizers left empty.
const hintConfidence = 0.5

func applyHints(p *page, res *Result, payload *entity.CapturePayload) {
	if payload.CaptureKind != entity.KindGenericProduct || len(payload.Hints) == 0 {
		return
	}
	hintFields := map[string]string{
		"title": "name",
		"brand": "brand",
		"price": "price",
		"image": "image_url",
	}
	for hint, field := range hintFields {
		raw := strings.TrimSpace(payload.Hints[hint])
		if raw == "" {
			continue
		}
		if _, claimed := res.Data[field]; claimed {
			continue
		}
		if field == "price" {
			if v, confidence, ok := p.priceValue(raw, hintConfidence); ok {
				res.Data[field] = Field{Value: v, Confidence: confidence}
			}
			continue
		}
		res.Data[field] = Field{Value: raw, Confidence: hintConfidence}
	}
}

// page is the parsed view of a capture that recognizers match against.
type page struct {
	doc      *goquery.Document
	text     string // visible text, whitespace-collapsed
	lower    string // lowercased copy of text for keyword matching
	base     *url.URL
	warnings []string
}

func parsePage(html, sourceURL string) (*page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	// Visible text only.
	clone := doc.Clone()
	clone.Find("script, style, noscript").Remove()
	text := strings.Join(strings.Fields(clone.Find("body").Text()), " ")

	p := &page{doc: doc, text: text, lower: strings.ToLower(text)}
	if base, err := url.Parse(sourceURL); err == nil && base.Host != "" {
		p.base = base
	}
	return p, nil
}

// meta returns the content of the first matching <meta> tag, checking both
// name= and property= attributes for each key.
func (p *page) meta(keys ...string) string {
	for _, key := range keys {
		sel := fmt.Sprintf(`meta[name=%q], meta[property=%q]`, key, key)
		if content, ok := p.doc.Find(sel).First().Attr("content"); ok && strings.TrimSpace(content) != "" {
			return strings.TrimSpace(content)
		}
	}
	return ""
}

// discoverPolicyLinks collects up to five anchors that look like policy
// sub-pages (returns, refunds, price matching), resolved against the capture's
// source URL. These are surfaced so the user can capture the dedicated page.
func discoverPolicyLinks(p *page) []string {
	seen := make(map[string]bool)
	var links []string
	p.doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
			return true
		}
		probe := strings.ToLower(s.Text() + " " + href)
		if !strings.Contains(probe, "return") && !strings.Contains(probe, "refund") &&
			!strings.Contains(probe, "price-match") && !strings.Contains(probe, "price match") &&
			!strings.Contains(probe, "policy") {
			return true
		}
		abs := href
		if p.base != nil {
			if resolved, err := utils.ToAbsoluteURL(p.base, href); err == nil {
				abs = resolved
			}
		}
		if !seen[abs] {
			seen[abs] = true
			links = append(links, abs)
		}
		return len(links) < 5
	})
	return links
}

// policySnapshot renders a sanitized Markdown copy of the captured fragment
// for storage alongside the structured fields.
func policySnapshot(html string) string {
	sanitized := bluemonday.UGCPolicy().Sanitize(html)
	md, err := htmltomarkdown.ConvertString(sanitized)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(md)
}
