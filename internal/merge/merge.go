// Package merge combines up to three field sources into one record under a
// fixed priority order: manual entry beats community-imported values, which
// beat automatically extracted values. A lower-priority source only fills
// fields that are still empty, so manual corrections are never overwritten.
package merge

import "github.com/user/collection-service/internal/scrape"

// FieldValues holds one source's contribution, keyed by canonical field name.
type FieldValues map[string]any

// Sources are the three inputs in descending priority.
type Sources struct {
	Manual    FieldValues
	Community FieldValues
	Scraped   FieldValues
}

// Apply folds the sources into a single record. It is pure: the same inputs
// always yield the same output, and no input map is mutated.
func Apply(src Sources) FieldValues {
	result := make(FieldValues)
	for _, source := range []FieldValues{src.Manual, src.Community, src.Scraped} {
		for key, value := range source {
			if isEmpty(value) {
				continue
			}
			if _, populated := result[key]; populated {
				continue
			}
			result[key] = value
		}
	}
	return result
}

// FromScrape flattens a successful extraction into mergeable field values,
// discarding the per-field confidences. Failed results contribute nothing.
func FromScrape(r *scrape.Result) FieldValues {
	if r == nil || !r.Success {
		return nil
	}
	values := make(FieldValues, len(r.Data))
	for key, field := range r.Data {
		values[key] = field.Value
	}
	return values
}

// isEmpty reports whether a value counts as "not populated". Explicit zeros
// and explicit false are values the user may have typed; only nil and the
// empty string are empty.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, isString := v.(string)
	return isString && s == ""
}
