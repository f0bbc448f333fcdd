package search

// SimilarityFromDistance converts a native cosine distance into the
// canonical similarity scale. Both supported stores report
// distance = 1 - cos(q, d) when indexed with the cosine metric, so the
// conversion assumes that metric; an index built with another metric would
// need a different mapping here.
func SimilarityFromDistance(distance float64) float64 {
	return 1 - distance
}

// normalizeAndFilter keeps hits whose similarity meets the threshold.
// The boundary is inclusive and the incoming order (the backend's native
// ranking) is preserved. An empty input yields an empty, non-nil slice.
func normalizeAndFilter(hits []Hit, threshold float64) []Hit {
	filtered := make([]Hit, 0, len(hits))
	for _, hit := range hits {
		if hit.Score >= threshold {
			filtered = append(filtered, hit)
		}
	}
	return filtered
}
