package scrape

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/collection-service/internal/entity"
)

func extract(t *testing.T, kind, content string) *Result {
	t.Helper()
	return Extract(&entity.CapturePayload{
		UserID:          "u1",
		SourceURL:       "https://store.example/help/returns",
		CapturedContent: content,
		CaptureKind:     kind,
	})
}

func TestExtract_ReturnPolicy(t *testing.T) {
	html := `<html><body><p>Returns accepted within 30 days, free return shipping.</p></body></html>`
	res := extract(t, entity.KindReturnPolicy, html)

	require.True(t, res.Success)
	assert.Equal(t, 30, res.Data["return_window_days"].Value)
	assert.Equal(t, true, res.Data["free_return_shipping"].Value)
	assert.Greater(t, res.Confidence, 0.0)
}

func TestExtract_SpecificPhraseScoresHigherThanVague(t *testing.T) {
	specific := extract(t, entity.KindReturnPolicy, `<p>30-day return window on all orders.</p>`)
	vague := extract(t, entity.KindReturnPolicy, `<p>Returns accepted.</p>`)

	require.True(t, specific.Success)
	require.True(t, vague.Success)
	assert.Greater(t,
		specific.Data["return_window_days"].Confidence,
		vague.Data["returns_accepted"].Confidence,
	)
}

func TestExtract_OutOfRangeDayCountDropped(t *testing.T) {
	res := extract(t, entity.KindReturnPolicy, `<p>Returns accepted within 9999 days. Free returns.</p>`)

	require.True(t, res.Success)
	_, present := res.Data["return_window_days"]
	assert.False(t, present, "implausible day count must be dropped")
	assert.Equal(t, true, res.Data["free_return_shipping"].Value)

	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "out of range") {
			found = true
		}
	}
	assert.True(t, found, "dropping a field must leave a warning")
}

func TestExtract_NothingRecognized(t *testing.T) {
	res := extract(t, entity.KindReturnPolicy, `<p>Welcome to our store.</p>`)

	assert.False(t, res.Success)
	assert.Zero(t, res.Confidence)
	assert.Empty(t, res.Data)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0], "no return_policy fields recognized")
}

func TestExtract_ConfidenceIsMeanOfFields(t *testing.T) {
	res := extract(t, entity.KindReturnPolicy, `<p>Returns accepted within 30 days, free return shipping.</p>`)
	require.True(t, res.Success)

	var sum float64
	for _, f := range res.Data {
		sum += f.Confidence
	}
	assert.InDelta(t, sum/float64(len(res.Data)), res.Confidence, 1e-9)
}

func TestExtract_PriceMatchPolicy(t *testing.T) {
	res := extract(t, entity.KindPriceMatchPolicy, `<p>Price match guarantee: price matching within 14 days of purchase.</p>`)

	require.True(t, res.Success)
	assert.Equal(t, 14, res.Data["price_match_window_days"].Value)
	assert.Equal(t, true, res.Data["price_match_offered"].Value)
}

func TestExtract_GenericProductFromMetadata(t *testing.T) {
	html := `<html><head>
		<title>Wireless Mouse - Example Store</title>
		<meta property="og:title" content="Wireless Mouse">
		<meta property="og:brand" content="Logi">
		<meta property="og:price:amount" content="29.99">
		<meta property="og:price:currency" content="USD">
	</head><body></body></html>`
	res := extract(t, entity.KindGenericProduct, html)

	require.True(t, res.Success)
	assert.Equal(t, "Wireless Mouse", res.Data["name"].Value)
	assert.Equal(t, "Logi", res.Data["brand"].Value)
	assert.Equal(t, 29.99, res.Data["price"].Value)
	assert.Equal(t, "USD", res.Data["currency"].Value)
	// og:title must win over <title>
	assert.InDelta(t, 0.9, res.Data["name"].Confidence, 1e-9)
}

func TestExtract_AgentHintsFillMissingFields(t *testing.T) {
	res := Extract(&entity.CapturePayload{
		SourceURL:       "https://store.example/p/1",
		CapturedContent: `<html><head><meta property="og:title" content="Desk Lamp"></head><body></body></html>`,
		CaptureKind:     entity.KindGenericProduct,
		Hints: map[string]string{
			"title": "Ignored: recognizer already claimed name",
			"brand": "Lumen",
		},
	})

	require.True(t, res.Success)
	assert.Equal(t, "Desk Lamp", res.Data["name"].Value, "recognizer result must not be overwritten by a hint")
	assert.Equal(t, "Lumen", res.Data["brand"].Value)
	assert.InDelta(t, hintConfidence, res.Data["brand"].Confidence, 1e-9)
}

func TestExtract_DiscoversPolicyLinks(t *testing.T) {
	html := `<html><body>
		<a href="/help/returns">Return policy</a>
		<a href="/about">About us</a>
		<a href="https://store.example/help/price-match">Price match</a>
	</body></html>`
	res := extract(t, entity.KindGenericProduct, html)

	assert.Contains(t, res.SourceURLs, "https://store.example/help/returns")
	assert.Contains(t, res.SourceURLs, "https://store.example/help/price-match")
	assert.NotContains(t, res.SourceURLs, "https://store.example/about")
}

func TestExtract_UnparseableContentFailsSoft(t *testing.T) {
	res := Extract(&entity.CapturePayload{
		SourceURL:       "https://store.example",
		CapturedContent: "",
		CaptureKind:     entity.KindReturnPolicy,
	})

	assert.False(t, res.Success)
	assert.Zero(t, res.Confidence)
	assert.NotEmpty(t, res.Warnings)
}

func TestExtract_PolicySnapshotRendered(t *testing.T) {
	res := extract(t, entity.KindReturnPolicy,
		`<h1>Returns</h1><p>Returns accepted within 30 days.</p><script>evil()</script>`)

	require.True(t, res.Success)
	assert.Contains(t, res.Snapshot, "Returns")
	assert.NotContains(t, res.Snapshot, "evil")
}
