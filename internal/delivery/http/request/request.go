package request

// SubmitCaptureRequest is the body a capture agent posts. Hints are the
// agent's own best-effort field extraction; the server re-extracts from
// captured_content regardless.
type SubmitCaptureRequest struct {
	Token           string            `json:"token"`
	SourceURL       string            `json:"source_url"`
	CapturedContent string            `json:"captured_content"`
	CaptureKind     string            `json:"capture_kind"`
	Hints           map[string]string `json:"hints,omitempty"`
}

// AddItemRequest carries the merged candidate fields for insertion.
type AddItemRequest struct {
	Name     string  `json:"name"`
	Brand    string  `json:"brand"`
	URL      string  `json:"url"`
	Price    float64 `json:"price"`
	Notes    string  `json:"notes"`
	ForceAdd bool    `json:"force_add"`
}

// ImportCommunityRecordRequest carries the caller's current editing state so
// the merge can respect manual entries.
type ImportCommunityRecordRequest struct {
	Manual  map[string]any `json:"manual"`
	Scraped map[string]any `json:"scraped"`
}
