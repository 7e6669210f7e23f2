package merge

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/collection-service/internal/scrape"
)

func TestApply_PriorityOrder(t *testing.T) {
	result := Apply(Sources{
		Manual:    FieldValues{"return_window_days": 45},
		Community: FieldValues{"return_window_days": 30, "price_match_window_days": 14},
		Scraped:   FieldValues{"return_window_days": 60, "free_return_shipping": true},
	})

	assert.Equal(t, 45, result["return_window_days"], "manual entry wins")
	assert.Equal(t, 14, result["price_match_window_days"], "community fills what manual left empty")
	assert.Equal(t, true, result["free_return_shipping"], "scrape fills the rest")
}

func TestApply_ImportNeverTouchesManualFields(t *testing.T) {
	manual := FieldValues{"return_window_days": 45}
	scraped := FieldValues{"free_return_shipping": true}

	first := Apply(Sources{Manual: manual, Scraped: scraped})
	assert.Equal(t, 45, first["return_window_days"])

	// User now imports a community record; the re-run only fills below
	// manual priority.
	second := Apply(Sources{
		Manual:    manual,
		Community: FieldValues{"return_window_days": 30, "price_match_window_days": 14},
		Scraped:   scraped,
	})
	assert.Equal(t, 45, second["return_window_days"], "manual edits are sacrosanct")
	assert.Equal(t, 14, second["price_match_window_days"])
	assert.Equal(t, true, second["free_return_shipping"])
}

func TestApply_EmptyValuesDoNotClaimFields(t *testing.T) {
	result := Apply(Sources{
		Manual:    FieldValues{"brand": "", "name": nil},
		Community: FieldValues{"brand": "Logi", "name": "Wireless Mouse"},
	})

	assert.Equal(t, "Logi", result["brand"], "empty string is not a manual value")
	assert.Equal(t, "Wireless Mouse", result["name"], "nil is not a manual value")
}

func TestApply_ExplicitZeroAndFalseAreValues(t *testing.T) {
	result := Apply(Sources{
		Manual:    FieldValues{"restocking_fee_percent": 0, "free_return_shipping": false},
		Community: FieldValues{"restocking_fee_percent": 15, "free_return_shipping": true},
	})

	assert.Equal(t, 0, result["restocking_fee_percent"])
	assert.Equal(t, false, result["free_return_shipping"])
}

func TestApply_DoesNotMutateInputs(t *testing.T) {
	manual := FieldValues{"name": "Typed"}
	community := FieldValues{"name": "Imported", "brand": "Logi"}

	_ = Apply(Sources{Manual: manual, Community: community})

	assert.Equal(t, FieldValues{"name": "Typed"}, manual)
	assert.Equal(t, FieldValues{"name": "Imported", "brand": "Logi"}, community)
}

// Property: for every presence combination, the merged value is the manual
// one if present, else the community one, else the scraped one, else absent.
func TestApply_PriorityStableProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const key = "field"

	for i := 0; i < 500; i++ {
		var src Sources
		hasManual, hasCommunity, hasScraped := rng.Intn(2) == 1, rng.Intn(2) == 1, rng.Intn(2) == 1
		if hasManual {
			src.Manual = FieldValues{key: "manual"}
		}
		if hasCommunity {
			src.Community = FieldValues{key: "community"}
		}
		if hasScraped {
			src.Scraped = FieldValues{key: "scraped"}
		}

		result := Apply(src)
		got, present := result[key]

		switch {
		case hasManual:
			assert.Equal(t, "manual", got)
		case hasCommunity:
			assert.Equal(t, "community", got)
		case hasScraped:
			assert.Equal(t, "scraped", got)
		default:
			assert.False(t, present)
		}
	}
}

func TestFromScrape(t *testing.T) {
	values := FromScrape(&scrape.Result{
		Success: true,
		Data: map[string]scrape.Field{
			"return_window_days": {Value: 30, Confidence: 0.9},
		},
	})
	require.Equal(t, FieldValues{"return_window_days": 30}, values)

	assert.Nil(t, FromScrape(nil))
	assert.Nil(t, FromScrape(&scrape.Result{Success: false}))
}
