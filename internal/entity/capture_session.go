package entity

import "time"

// Capture kinds the extractor knows how to handle.
const (
	KindReturnPolicy     = "return_policy"
	KindPriceMatchPolicy = "price_match_policy"
	KindGenericProduct   = "generic_product"
)

// ValidCaptureKind reports whether kind names a known capture kind.
func ValidCaptureKind(kind string) bool {
	switch kind {
	case KindReturnPolicy, KindPriceMatchPolicy, KindGenericProduct:
		return true
	}
	return false
}

// CapturePayload is the mailbox content a capture agent delivers for one
// session. Stored as JSON in Redis under a short TTL and consumed at most
// once by the polling application tab.
type CapturePayload struct {
	UserID          string            `json:"user_id"`
	SourceURL       string            `json:"source_url"`
	CapturedContent string            `json:"captured_content"`
	CaptureKind     string            `json:"capture_kind"`
	Hints           map[string]string `json:"hints,omitempty"`
	CapturedAt      time.Time         `json:"captured_at"`
}
